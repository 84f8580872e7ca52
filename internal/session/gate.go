package session

import (
	"unicode"

	"github.com/verte-zerg/neontype/internal/model"
)

// GateResult is the outcome of offering a candidate input to the gate.
type GateResult struct {
	Accepted []rune
	Changed  bool
	Feedback model.Feedback
}

// Accept validates a candidate input against the target text. Candidates
// longer than the target, or offered once the session is finished, are
// rejected and the current input is returned unchanged. A forward keystroke
// reports whether its last character matches the target.
func Accept(phase model.Phase, current, candidate, target []rune) GateResult {
	if phase == model.Finished || len(candidate) > len(target) {
		return GateResult{Accepted: current}
	}
	res := GateResult{
		Accepted: append([]rune(nil), candidate...),
		Changed:  !equalRunes(current, candidate),
	}
	if n := len(candidate); n > len(current) {
		res.Feedback = model.Feedback{
			Typed:   true,
			Correct: candidate[n-1] == target[n-1],
			Index:   n - 1,
		}
	}
	return res
}

// Append returns current extended by runes.
func Append(current, runes []rune) []rune {
	out := make([]rune, 0, len(current)+len(runes))
	out = append(out, current...)
	return append(out, runes...)
}

// Backspace returns current without its last rune.
func Backspace(current []rune) []rune {
	if len(current) == 0 {
		return current
	}
	return append([]rune(nil), current[:len(current)-1]...)
}

// DeleteWord removes trailing spaces and then the word before them.
func DeleteWord(current []rune) []rune {
	end := len(current)
	for end > 0 && unicode.IsSpace(current[end-1]) {
		end--
	}
	for end > 0 && !unicode.IsSpace(current[end-1]) {
		end--
	}
	return append([]rune(nil), current[:end]...)
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
