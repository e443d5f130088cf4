package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-chat/internal/chunker"
)

// blockingSynth reports each text it is asked to speak and plays until finish or cancel.
type blockingSynth struct {
	texts  chan string
	finish chan error
}

func newBlockingSynth() *blockingSynth {
	return &blockingSynth{texts: make(chan string, 4), finish: make(chan error, 1)}
}

func (b *blockingSynth) Speak(ctx context.Context, text, _ string) error {
	b.texts <- text
	select {
	case err := <-b.finish:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestNextSpeakerState(t *testing.T) {
	tests := []struct {
		from    SpeakerState
		trigger SpeakerTrigger
		want    SpeakerState
		wantErr bool
	}{
		{SpeakerIdle, SpeakStart, SpeakerSpeaking, false},
		{SpeakerSpeaking, SpeakEnd, SpeakerIdle, false},
		{SpeakerSpeaking, SpeakCancel, SpeakerIdle, false},
		{SpeakerSpeaking, SpeakStart, SpeakerSpeaking, true},
		{SpeakerIdle, SpeakEnd, SpeakerIdle, true},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"/"+string(tt.trigger), func(t *testing.T) {
			got, err := NextSpeakerState(tt.from, tt.trigger)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSpeakerPlaysToEnd(t *testing.T) {
	synth := newBlockingSynth()
	sp := NewSpeaker(synth, "uz-UZ", discardLogger())

	state, err := sp.Toggle(context.Background(), "Salom!")
	require.NoError(t, err)
	assert.Equal(t, SpeakerSpeaking, state)
	assert.Equal(t, "Salom!", <-synth.texts)

	synth.finish <- nil
	waitDone(t, sp.Done())
	assert.Equal(t, SpeakerIdle, sp.State())
}

func TestSpeakerToggleCancels(t *testing.T) {
	synth := newBlockingSynth()
	sp := NewSpeaker(synth, "uz-UZ", discardLogger())

	_, err := sp.Toggle(context.Background(), "uzun javob")
	require.NoError(t, err)
	<-synth.texts
	done := sp.Done()

	state, err := sp.Toggle(context.Background(), "boshqa")
	require.NoError(t, err)
	assert.Equal(t, SpeakerIdle, state)
	waitDone(t, done)
	assert.Equal(t, SpeakerIdle, sp.State())
	assert.Empty(t, synth.texts, "cancelling must not start new playback")
}

func TestSpeakerFailureReturnsToIdle(t *testing.T) {
	synth := newBlockingSynth()
	sp := NewSpeaker(synth, "uz-UZ", discardLogger())

	_, err := sp.Toggle(context.Background(), "x")
	require.NoError(t, err)
	<-synth.texts
	synth.finish <- errors.New("espeak-ng: not found")
	waitDone(t, sp.Done())

	assert.Equal(t, SpeakerIdle, sp.State())
}

func TestSpeakerPlaysLongAnswersInPieces(t *testing.T) {
	synth := newBlockingSynth()
	sp := NewSpeaker(synth, "uz-UZ", discardLogger())
	long := strings.TrimSpace(strings.Repeat("soz ", chunker.DefaultMaxWords)) + ". Oxiri."

	_, err := sp.Toggle(context.Background(), long)
	require.NoError(t, err)
	first := <-synth.texts
	synth.finish <- nil
	second := <-synth.texts
	synth.finish <- nil
	waitDone(t, sp.Done())

	assert.Len(t, strings.Fields(first), chunker.DefaultMaxWords)
	assert.Equal(t, "Oxiri.", second)
	assert.Equal(t, SpeakerIdle, sp.State())
}
