// Package prompt renders the text prompt sent to the completion endpoint.
package prompt

// StopSequences end the model's turn before it starts writing the next user line.
var StopSequences = []string{"\nUser:", "User:"}

// Build concatenates the system instruction (followed by a blank line when
// non-empty), the transcript and the marker for the new user message. No
// escaping or length capping is performed.
func Build(system, transcript, message string) string {
	header := ""
	if system != "" {
		header = system + "\n\n"
	}

	return header + transcript + "User: " + message + "\nAssistant:"
}

// Exchange renders one completed user/assistant exchange as transcript text.
func Exchange(user, assistant string) string {
	return "User: " + user + "\nAssistant: " + assistant + "\n"
}

// Transcript is the append-only record of prior exchanges in a session.
// The zero value is an empty transcript.
type Transcript struct {
	text  string
	turns int
}

// Append returns a transcript with the exchange appended. The receiver is
// left unchanged.
func (t Transcript) Append(user, assistant string) Transcript {
	return Transcript{
		text:  t.text + Exchange(user, assistant),
		turns: t.turns + 1,
	}
}

// Len returns the number of recorded exchanges.
func (t Transcript) Len() int { return t.turns }

// String returns the rendered transcript text.
func (t Transcript) String() string { return t.text }

// Prompt builds the prompt for message on top of this transcript.
func (t Transcript) Prompt(system, message string) string {
	return Build(system, t.text, message)
}
