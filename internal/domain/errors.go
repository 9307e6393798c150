package domain

import "errors"

// Sentinel errors for organize and tag operations
var (
	// ErrNoTagsSelected indicates an organize attempt with an empty tag set
	ErrNoTagsSelected = errors.New("no tags selected")

	// ErrDestinationUnset indicates the destination folder is not configured
	ErrDestinationUnset = errors.New("destination folder is not configured")

	// ErrDestinationMissing indicates the configured destination folder does not exist
	ErrDestinationMissing = errors.New("destination folder does not exist")

	// ErrSourceNotFound indicates the video to organize no longer exists on disk
	ErrSourceNotFound = errors.New("source video not found")

	// ErrNotVideo indicates the path does not have a recognized video extension
	ErrNotVideo = errors.New("not a recognized video file")

	// ErrEmptyTag indicates a tag name was empty after normalization
	ErrEmptyTag = errors.New("tag cannot be empty")

	// ErrTagExists indicates the tag is already present in the palette
	ErrTagExists = errors.New("tag already exists")
)
