package intake

import (
	"errors"
	"net/http"
	"strings"

	"github.com/louisbranch/encodingtask/internal/experiment"
	"github.com/louisbranch/encodingtask/internal/experiment/trial"
	apperrors "github.com/louisbranch/encodingtask/internal/services/encoding/platform/errors"
	"github.com/louisbranch/encodingtask/internal/services/encoding/templates"
)

// maxFormBytes bounds the intake form body.
const maxFormBytes = 16 << 10

func readForm(w http.ResponseWriter, r *http.Request) (templates.IntakeForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return templates.IntakeForm{}, apperrors.Wrap(apperrors.KindInvalidInput, "errors.form_invalid", err)
	}
	return templates.IntakeForm{
		SubID:      strings.TrimSpace(r.PostForm.Get("sub_id")),
		Group:      strings.TrimSpace(r.PostForm.Get("group")),
		Gender:     strings.TrimSpace(r.PostForm.Get("gender")),
		Age:        strings.TrimSpace(r.PostForm.Get("age")),
		Handedness: strings.TrimSpace(r.PostForm.Get("handedness")),
	}, nil
}

// participantFromForm converts form input. The id is checked before the
// group so an empty form reports the missing id first.
func participantFromForm(form templates.IntakeForm) (experiment.Participant, error) {
	p := experiment.Participant{
		ID:         form.SubID,
		Gender:     experiment.Gender(form.Gender),
		Age:        form.Age,
		Handedness: experiment.Handedness(form.Handedness),
	}
	if strings.TrimSpace(p.ID) == "" {
		return p, experiment.ErrMissingParticipantID
	}
	group, err := experiment.ParseGroup(form.Group)
	if err != nil {
		return p, err
	}
	p.Group = group
	return p.Normalize(), p.Validate()
}

// poolError attaches the pool numbers the localized message needs.
func poolError(err error, poolSize int, group experiment.Group) error {
	if !errors.Is(err, trial.ErrPoolExhausted) {
		return err
	}
	return apperrors.Wrap(apperrors.KindPrecondition, "errors.pool_too_small", err,
		poolSize, int(group), experiment.RequiredPoolSize(group))
}
