package models

// Note year bounds (inclusive).
const (
	MinNoteYear = 2000
	MaxNoteYear = 2100
)

// Star value bounds for a rating (inclusive).
const (
	MinStars = 1
	MaxStars = 5
)

// Study start year bounds accepted on a profile (inclusive).
const (
	MinStudyStartYear = 1950
	MaxStudyStartYear = 2100
)

// MaxUsernameLength is the longest username a profile may carry.
const MaxUsernameLength = 50
