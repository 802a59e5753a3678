package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key for a staff user's login session.
func (r *CacheKeyStruct) UserSessionKey(userID int) string {
	return fmt.Sprintf("session:%d", userID)
}

// AttendanceFeedChannel returns the Redis PubSub channel name for a class
// group's live attendance feed.
func (r *CacheKeyStruct) AttendanceFeedChannel(classGroupID int) string {
	return fmt.Sprintf("class_group:%d:attendance_feed", classGroupID)
}

var CacheKey = NewCacheKeyStruct()
