// Package experiment models one participant's pass through the encoding task.
//
// A Session replaces the ambient per-process state of a form app: it carries
// the participant, the seed every trial is derived from, the trial cache, the
// audio captured per trial and the ordered result records.
package experiment
