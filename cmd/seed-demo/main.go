package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/scolaris/scolaris-backend/internal/config"
	"github.com/scolaris/scolaris-backend/internal/database"
	"github.com/scolaris/scolaris-backend/internal/logger"
	"github.com/scolaris/scolaris-backend/internal/model"
	"github.com/scolaris/scolaris-backend/internal/repository"
	"github.com/scolaris/scolaris-backend/internal/service"
)

// Seeds one school, one class group and thirty students for local demos.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	schoolRepo := repository.NewSchoolRepository(pool)
	classGroupRepo := repository.NewClassGroupRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)

	schoolService := service.NewSchoolService(schoolRepo, log)
	classGroupService := service.NewClassGroupService(classGroupRepo)
	studentService := service.NewStudentService(studentRepo)

	fmt.Println("=== Seeding Demo Data ===")

	schoolName := "Lakeside Primary"

	var schoolID int
	err = pool.QueryRow(ctx,
		`SELECT id FROM schools WHERE name = $1 AND is_active`, schoolName,
	).Scan(&schoolID)
	if err != nil {
		if err != pgx.ErrNoRows {
			log.Fatal().Err(err).Msg("Failed to check existing school")
		}
		fmt.Println("School not found. Creating it...")
		school, err := schoolService.Create(ctx, model.SchoolRequest{
			Name: schoolName,
			City: "Lakeside",
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create school")
		}
		schoolID = school.ID
		fmt.Printf("Created school with ID: %d\n", schoolID)
	} else {
		fmt.Printf("Found existing school with ID: %d\n", schoolID)
	}

	group, err := classGroupService.Create(ctx, model.ClassGroupRequest{
		SchoolID:     schoolID,
		Name:         "5B",
		Level:        "Grade 5",
		AcademicYear: "2026-2027",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create class group")
	}
	fmt.Printf("Created class group with ID: %d\n", group.ID)

	names := [][2]string{
		{"Emma", "Walker"}, {"Liam", "Bennett"}, {"Olivia", "Hayes"}, {"Noah", "Sinclair"},
		{"Ava", "Thornton"}, {"Elijah", "Mercer"}, {"Sophia", "Caldwell"}, {"Lucas", "Whitfield"},
		{"Isabella", "Monroe"}, {"Mason", "Ashford"}, {"Mia", "Langley"}, {"Ethan", "Pemberton"},
		{"Charlotte", "Redmond"}, {"Logan", "Sutherland"}, {"Amelia", "Kingsley"}, {"James", "Hollis"},
		{"Harper", "Eastwood"}, {"Benjamin", "Farrow"}, {"Evelyn", "Marlowe"}, {"Jacob", "Stanton"},
		{"Abigail", "Winslow"}, {"Michael", "Hargrove"}, {"Emily", "Renshaw"}, {"Daniel", "Oakes"},
		{"Elizabeth", "Falkner"}, {"Henry", "Brightman"}, {"Sofia", "Lockhart"}, {"Jackson", "Denholm"},
		{"Avery", "Wexford"}, {"Sebastian", "Carlisle"},
	}

	successCount := 0
	for i, n := range names {
		ref := fmt.Sprintf("STU-%04d", i+1)
		groupID := group.ID

		_, err := studentService.Create(ctx, model.StudentRequest{
			Reference:    &ref,
			FirstName:    n[0],
			LastName:     n[1],
			ClassGroupID: &groupID,
		})
		if err != nil {
			fmt.Printf("Error creating student %s %s (%s): %v\n", n[0], n[1], ref, err)
			continue
		}
		successCount++
		if (i+1)%10 == 0 {
			fmt.Printf("Created %d students...\n", i+1)
		}
	}

	fmt.Printf("\nSeed completed! Successfully added %d/%d students.\n", successCount, len(names))
}
