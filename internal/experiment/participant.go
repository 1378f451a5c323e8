package experiment

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxParticipantIDLength bounds participant ids, counted in characters.
const MaxParticipantIDLength = 10

// Group selects how many target words each trial highlights.
type Group int

// Groups lists the valid groups in display order.
var Groups = []Group{1, 2, 3}

// ParseGroup parses a form value into a Group.
func ParseGroup(value string) (Group, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGroup, value)
	}
	g := Group(n)
	if !g.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidGroup, n)
	}
	return g, nil
}

// Valid reports whether g is one of Groups.
func (g Group) Valid() bool {
	return g >= 1 && g <= 3
}

// TargetCount returns K, the target words per trial.
func (g Group) TargetCount() int {
	return int(g)
}

// Gender is the participant's reported gender.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Genders lists the intake choices.
var Genders = []Gender{GenderMale, GenderFemale}

// Handedness is the participant's dominant hand.
type Handedness string

const (
	HandednessRight Handedness = "right"
	HandednessLeft  Handedness = "left"
	HandednessBoth  Handedness = "both"
)

// Handednesses lists the intake choices.
var Handednesses = []Handedness{HandednessRight, HandednessLeft, HandednessBoth}

// Participant is captured once at intake and never changes afterwards.
type Participant struct {
	ID         string
	Group      Group
	Gender     Gender
	Age        string
	Handedness Handedness
}

// Normalize trims free-text fields.
func (p Participant) Normalize() Participant {
	p.ID = strings.TrimSpace(p.ID)
	p.Age = strings.TrimSpace(p.Age)
	p.Gender = Gender(strings.TrimSpace(string(p.Gender)))
	p.Handedness = Handedness(strings.TrimSpace(string(p.Handedness)))
	return p
}

// Validate checks intake fields. Age is free text and may be empty.
func (p Participant) Validate() error {
	p = p.Normalize()
	if p.ID == "" {
		return ErrMissingParticipantID
	}
	if utf8.RuneCountInString(p.ID) > MaxParticipantIDLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidParticipantID, MaxParticipantIDLength)
	}
	if strings.ContainsAny(p.ID, `/\`) || p.ID == "." || p.ID == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidParticipantID, p.ID)
	}
	if !p.Group.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidGroup, p.Group)
	}
	switch p.Gender {
	case GenderMale, GenderFemale:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidGender, p.Gender)
	}
	switch p.Handedness {
	case HandednessRight, HandednessLeft, HandednessBoth:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidHandedness, p.Handedness)
	}
	return nil
}
