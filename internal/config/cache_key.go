package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// QuizPayloadKey returns the cache key for a parsed quiz file's payload.
func (r *CacheKeyStruct) QuizPayloadKey(folderID, filename string) string {
	return fmt.Sprintf("quiz:%s:%s:payload", folderID, filename)
}

// FolderIndexKey returns the cache key for the folder index payload.
func (r *CacheKeyStruct) FolderIndexKey() string {
	return "quiz:index:payload"
}

var CacheKey = NewCacheKeyStruct()
