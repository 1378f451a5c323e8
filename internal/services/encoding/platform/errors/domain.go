package errors

import (
	stderrors "errors"

	"github.com/louisbranch/encodingtask/internal/experiment"
	"github.com/louisbranch/encodingtask/internal/experiment/audio"
	"github.com/louisbranch/encodingtask/internal/experiment/trial"
	"github.com/louisbranch/encodingtask/internal/services/encoding/sessions"
)

// FromDomain maps experiment and session failures onto typed web errors.
// Errors already typed pass through; unknown errors stay untyped so they
// render as internal failures.
func FromDomain(err error) error {
	if err == nil {
		return nil
	}
	var appErr Error
	if stderrors.As(err, &appErr) {
		return err
	}
	switch {
	case stderrors.Is(err, experiment.ErrMissingParticipantID):
		return Wrap(KindInvalidInput, "errors.sub_id_required", err)
	case stderrors.Is(err, experiment.ErrInvalidParticipantID):
		return Wrap(KindInvalidInput, "errors.sub_id_invalid", err)
	case stderrors.Is(err, experiment.ErrInvalidGroup):
		return Wrap(KindInvalidInput, "errors.group_invalid", err)
	case stderrors.Is(err, experiment.ErrInvalidGender):
		return Wrap(KindInvalidInput, "errors.gender_invalid", err)
	case stderrors.Is(err, experiment.ErrInvalidHandedness):
		return Wrap(KindInvalidInput, "errors.handedness_invalid", err)
	case stderrors.Is(err, experiment.ErrEmptyCue):
		return Wrap(KindInvalidInput, "errors.cue_required", err)
	case stderrors.Is(err, experiment.ErrAudioRequired):
		return Wrap(KindPrecondition, "errors.audio_required", err)
	case stderrors.Is(err, audio.ErrEmptyRecording):
		return Wrap(KindInvalidInput, "errors.audio_empty", err)
	case stderrors.Is(err, audio.ErrNotWAV):
		return Wrap(KindInvalidInput, "errors.audio_not_wav", err)
	case stderrors.Is(err, trial.ErrPoolExhausted):
		return Wrap(KindPrecondition, "", err)
	case stderrors.Is(err, experiment.ErrSessionComplete):
		return Wrap(KindConflict, "", err)
	case stderrors.Is(err, sessions.ErrNotFound):
		return Wrap(KindNotFound, "", err)
	}
	return err
}
