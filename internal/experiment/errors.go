package experiment

import "errors"

var (
	// ErrMissingParticipantID reports an empty participant id at intake.
	ErrMissingParticipantID = errors.New("participant id is required")
	// ErrInvalidParticipantID reports an id that is too long or unsafe in file names.
	ErrInvalidParticipantID = errors.New("participant id is invalid")
	// ErrInvalidGroup reports a group outside 1..3.
	ErrInvalidGroup = errors.New("participant group is invalid")
	// ErrInvalidGender reports an unknown gender choice.
	ErrInvalidGender = errors.New("participant gender is invalid")
	// ErrInvalidHandedness reports an unknown handedness choice.
	ErrInvalidHandedness = errors.New("participant handedness is invalid")
	// ErrEmptyCue reports a blank cue word submission.
	ErrEmptyCue = errors.New("cue word is required")
	// ErrAudioRequired reports a cue submission before audio was captured.
	ErrAudioRequired = errors.New("audio recording is required")
	// ErrSessionComplete reports a trial operation after the last trial.
	ErrSessionComplete = errors.New("session is complete")
)
