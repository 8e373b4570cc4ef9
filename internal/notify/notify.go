// Package notify is the user-facing notification capability. Mutation
// handlers call it exactly once per outcome.
package notify

import "log"

type Notifier interface {
	ShowSuccess(title, message string)
	ShowError(title, message string)
}

// LogNotifier writes notifications to the process log.
type LogNotifier struct{}

func (LogNotifier) ShowSuccess(title, message string) {
	log.Printf("✅ %s: %s", title, message)
}

func (LogNotifier) ShowError(title, message string) {
	log.Printf("❌ %s: %s", title, message)
}

// Multi fans a notification out to every configured channel.
type Multi []Notifier

func (m Multi) ShowSuccess(title, message string) {
	for _, n := range m {
		n.ShowSuccess(title, message)
	}
}

func (m Multi) ShowError(title, message string) {
	for _, n := range m {
		n.ShowError(title, message)
	}
}
