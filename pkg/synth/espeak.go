package synth

/*
#cgo LDFLAGS: -lespeak-ng
#include <stdlib.h>
#include <string.h>
#include <espeak-ng/speak_lib.h>

static int
pooja_espeak_init(void)
{
	return espeak_Initialize(AUDIO_OUTPUT_SYNCH_PLAYBACK, 500, NULL, 0);
}

static int
pooja_espeak_say(const char *text, const char *voice, int wpm)
{
	if (!text)
	{ return -1; }

	if (voice && voice[0])
	{ espeak_SetVoiceByName(voice); }
	else
	{
		espeak_VOICE specs;
		memset(&specs, 0, sizeof(specs));
		specs.languages = "en";
		espeak_SetVoiceByProperties(&specs);
	}

	espeak_SetParameter(espeakRATE, wpm, 0);

	if (espeak_Synth(text, strlen(text) + 1, 0, POS_CHARACTER, 0,
	                 espeakCHARS_AUTO, NULL, NULL) != EE_OK)
	{ return -1; }

	return espeak_Synchronize() == EE_OK ? 0 : -1;
}

static void
pooja_espeak_cancel(void)
{
	espeak_Cancel();
}

static void
pooja_espeak_term(void)
{
	espeak_Terminate();
}

static int
pooja_espeak_voice_count(void)
{
	const espeak_VOICE **vs = espeak_ListVoices(NULL);
	int n = 0;
	while (vs && vs[n])
	{ n++; }
	return n;
}

static const char *
pooja_espeak_voice_name(int i)
{
	const espeak_VOICE **vs = espeak_ListVoices(NULL);
	return vs[i]->name;
}

static const char *
pooja_espeak_voice_lang(int i)
{
	const espeak_VOICE **vs = espeak_ListVoices(NULL);
	const char *l = vs[i]->languages;
	// languages is a priority byte followed by the tag
	return (l && l[0]) ? l + 1 : "en";
}
*/
import "C"

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unsafe"
)

// eSpeak NG rate handling. The engine's supported range is 80-450 words
// per minute around a base of 175.
const (
	espeakBaseWPM = 175
	espeakMinWPM  = 80
	espeakMaxWPM  = 450
)

// EspeakEngine speaks through eSpeak NG with synchronous local playback.
type EspeakEngine struct {
	mu     sync.Mutex
	logger *slog.Logger
}

// NewEspeakEngine initializes eSpeak NG.
func NewEspeakEngine(logger *slog.Logger) (*EspeakEngine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if rc := C.pooja_espeak_init(); rc < 0 {
		return nil, fmt.Errorf("synth: espeak init failed: %d", int(rc))
	}
	return &EspeakEngine{logger: logger.With("component", "synth.espeak")}, nil
}

// Speak plays one utterance, honoring cancellation via espeak_Cancel.
func (e *EspeakEngine) Speak(ctx context.Context, text string, voice Voice, rate float64) error {
	if text == "" {
		return nil
	}

	// eSpeak playback is process-global; serialize utterances here.
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))
	cvoice := C.CString(voice.Name)
	defer C.free(unsafe.Pointer(cvoice))

	wpm := int(espeakBaseWPM * rate)
	if wpm < espeakMinWPM {
		wpm = espeakMinWPM
	}
	if wpm > espeakMaxWPM {
		wpm = espeakMaxWPM
	}

	done := make(chan error, 1)
	go func() {
		rc := C.pooja_espeak_say(ctext, cvoice, C.int(wpm))
		if rc != 0 {
			done <- errors.New("synth: espeak synthesis failed")
			return
		}
		done <- nil
	}()

	select {
	case <-ctx.Done():
		C.pooja_espeak_cancel()
		<-done
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// Voices returns the installed eSpeak voice catalog.
func (e *EspeakEngine) Voices() []Voice {
	n := int(C.pooja_espeak_voice_count())
	voices := make([]Voice, 0, n)
	for i := 0; i < n; i++ {
		voices = append(voices, Voice{
			Index:    i,
			Name:     C.GoString(C.pooja_espeak_voice_name(C.int(i))),
			Language: C.GoString(C.pooja_espeak_voice_lang(C.int(i))),
		})
	}
	return voices
}

// RateBounds returns the multiplier range backed by eSpeak's WPM limits.
func (e *EspeakEngine) RateBounds() (float64, float64) {
	return float64(espeakMinWPM) / espeakBaseWPM, float64(espeakMaxWPM) / espeakBaseWPM
}

// Close shuts eSpeak down.
func (e *EspeakEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	C.pooja_espeak_term()
	return nil
}

// Verify EspeakEngine implements Engine at compile time.
var _ Engine = (*EspeakEngine)(nil)
