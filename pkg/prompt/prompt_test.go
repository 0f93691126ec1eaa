package prompt_test

import (
	"testing"

	"github.com/germanamz/completions/pkg/prompt"
	"github.com/stretchr/testify/assert"
)

func TestBuild_SystemNoTranscript(t *testing.T) {
	got := prompt.Build("You are terse.", "", "Hi")
	assert.Equal(t, "You are terse.\n\nUser: Hi\nAssistant:", got)
}

func TestBuild_EmptySystem(t *testing.T) {
	got := prompt.Build("", "", "Hi")
	assert.Equal(t, "User: Hi\nAssistant:", got)
}

func TestBuild_WithTranscript(t *testing.T) {
	transcript := prompt.Exchange("Hi", "Hello.")
	got := prompt.Build("Sys", transcript, "How are you?")

	assert.Equal(t, "Sys\n\nUser: Hi\nAssistant: Hello.\nUser: How are you?\nAssistant:", got)
}

func TestBuild_NoEscaping(t *testing.T) {
	got := prompt.Build("", "", "line1\nUser: injected")
	assert.Equal(t, "User: line1\nUser: injected\nAssistant:", got)
}

func TestExchange(t *testing.T) {
	assert.Equal(t, "User: a\nAssistant: b\n", prompt.Exchange("a", "b"))
}

func TestTranscript_ZeroValue(t *testing.T) {
	var tr prompt.Transcript

	assert.Empty(t, tr.String())
	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, "S\n\nUser: x\nAssistant:", tr.Prompt("S", "x"))
}

func TestTranscript_AppendIsMonotonic(t *testing.T) {
	var t0 prompt.Transcript

	t1 := t0.Append("Hi", "Hello.")
	t2 := t1.Append("Bye", "Goodbye.")

	assert.Empty(t, t0.String())
	assert.Equal(t, "User: Hi\nAssistant: Hello.\n", t1.String())
	assert.Equal(t, "User: Hi\nAssistant: Hello.\nUser: Bye\nAssistant: Goodbye.\n", t2.String())
	assert.Equal(t, 2, t2.Len())
	assert.Contains(t, t2.String(), t1.String())
}

func TestTranscript_GrowthMatchesFreshBuild(t *testing.T) {
	cases := []struct {
		system  string
		history [][2]string
		user    string
		reply   string
		next    string
	}{
		{system: "", user: "Hi", reply: "Hello", next: "More"},
		{system: "Be kind.", history: [][2]string{{"a", "b"}}, user: "c", reply: "d", next: "e"},
		{system: "S", history: [][2]string{{"1", "2"}, {"3", "4"}}, user: "", reply: "", next: "x"},
	}

	for _, tc := range cases {
		var t1 prompt.Transcript
		for _, ex := range tc.history {
			t1 = t1.Append(ex[0], ex[1])
		}

		grown := t1.Append(tc.user, tc.reply)
		fresh := prompt.Build(tc.system, t1.String()+prompt.Exchange(tc.user, tc.reply), tc.next)

		assert.Equal(t, fresh, grown.Prompt(tc.system, tc.next))
	}
}

func TestStopSequences(t *testing.T) {
	assert.Equal(t, []string{"\nUser:", "User:"}, prompt.StopSequences)
}
