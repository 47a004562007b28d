// Package urltitle finds URLs in chat messages and answers with the titles of
// the pages they point to.
package urltitle

import "fmt"

// Trigger is the chat message that started a pipeline run.
type Trigger struct {
	Nick     string
	Hostmask string
	// Channel is where replies go; for private messages it is the sender's nick.
	Channel string
	Text    string
}

// Replier sends text back to where the trigger came from.
type Replier interface {
	// Say sends text to the channel as is.
	Say(text string)
	// Reply addresses the triggering nick.
	Reply(text string)
}

// Result is one resolved URL.
type Result struct {
	Title    string
	Hostname string
	Short    string
}

func (r Result) String() string {
	line := fmt.Sprintf("[ %s ] - %s", r.Title, r.Hostname)
	if r.Short != "" {
		line += fmt.Sprintf(" ( %s )", r.Short)
	}
	return line
}
