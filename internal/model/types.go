// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Mode selects how a session ends.
type Mode int

const (
	// TimeLimited sessions end when the countdown runs out.
	TimeLimited Mode = iota
	// WordLimited sessions end when the whole passage is typed.
	WordLimited
)

func (m Mode) String() string {
	switch m {
	case TimeLimited:
		return "time"
	case WordLimited:
		return "words"
	default:
		return "unknown"
	}
}

// ParseMode parses "time" or "words".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "time", "timed":
		return TimeLimited, nil
	case "words", "word":
		return WordLimited, nil
	default:
		return TimeLimited, fmt.Errorf("unknown mode %q (expected time or words)", s)
	}
}

// Topic is the subject a passage is written about.
type Topic string

// Supported topics.
const (
	TopicGeneral    Topic = "General"
	TopicCoding     Topic = "Coding"
	TopicSciFi      Topic = "Sci-Fi"
	TopicHistory    Topic = "History"
	TopicPhilosophy Topic = "Philosophy"
)

// Topics lists topics in display order.
var Topics = []Topic{TopicGeneral, TopicCoding, TopicSciFi, TopicHistory, TopicPhilosophy}

// ParseTopic matches a topic name case-insensitively.
func ParseTopic(s string) (Topic, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, t := range Topics {
		if strings.ToLower(string(t)) == needle {
			return t, nil
		}
	}
	if needle == "scifi" {
		return TopicSciFi, nil
	}
	return "", fmt.Errorf("unknown topic %q", s)
}

// LengthClass is the requested passage size.
type LengthClass string

// Length classes.
const (
	LengthShort  LengthClass = "short"
	LengthMedium LengthClass = "medium"
	LengthLong   LengthClass = "long"
)

// Phase is the lifecycle state of a session.
type Phase int

const (
	// Idle sessions have a passage but no accepted keystrokes.
	Idle Phase = iota
	// Running sessions are being typed.
	Running
	// Finished sessions are frozen.
	Finished
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Duration and word-count choices offered by the config bar.
var (
	DurationOptions  = []int{15, 30, 60}
	WordCountOptions = []int{10, 25, 50, 100}
)

// Config defines test settings.
type Config struct {
	Mode      Mode
	Duration  int
	WordCount int
	Topic     Topic
	Sound     bool
	Theme     string
}

// Sample is one point of the performance time series.
type Sample struct {
	Elapsed int     `json:"time"`
	WPM     float64 `json:"wpm"`
	Raw     float64 `json:"raw"`
}

// Stats is a metrics snapshot of a session.
type Stats struct {
	WPM            float64       `json:"wpm"`
	RawWPM         float64       `json:"rawWpm"`
	Accuracy       float64       `json:"accuracy"`
	CorrectChars   int           `json:"correctChars"`
	IncorrectChars int           `json:"incorrectChars"`
	MissedChars    int           `json:"missedChars"`
	TimeElapsed    time.Duration `json:"timeElapsed"`
	History        []Sample      `json:"history"`
}

// ElapsedSeconds returns TimeElapsed in fractional seconds.
func (s Stats) ElapsedSeconds() float64 {
	return s.TimeElapsed.Seconds()
}

// Feedback describes the most recently typed character.
type Feedback struct {
	Typed   bool
	Correct bool
	Index   int
}
