// Command pooja runs the voice assistant in the terminal: type a message
// or toggle the microphone, and Pooja answers out loud.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/vanshgarg/go-pooja/internal/config"
	"github.com/vanshgarg/go-pooja/internal/log"
	"github.com/vanshgarg/go-pooja/pkg/assistant"
	"github.com/vanshgarg/go-pooja/pkg/capture"
	"github.com/vanshgarg/go-pooja/pkg/chat"
	"github.com/vanshgarg/go-pooja/pkg/cue"
	"github.com/vanshgarg/go-pooja/pkg/reply"
	"github.com/vanshgarg/go-pooja/pkg/synth"
	"github.com/vanshgarg/go-pooja/pkg/visualizer"
)

const barRunes = " ▁▂▃▄▅▆▇█"

var ratePresets = map[string]float64{
	"slow":     0.8,
	"normal":   1.0,
	"fast":     1.2,
	"veryfast": 1.5,
}

// noMic stands in for the microphone when audio capture is unavailable.
type noMic struct{}

func (noMic) Recognize(ctx context.Context) (string, error) {
	return "", capture.ErrNoSpeech
}

func main() {
	envFile := pflag.String("env", ".env", "env file to load")
	logLevel := pflag.String("log-level", "", "log level (debug, info, warn, error)")
	chatURL := pflag.String("chat-url", "", "chat relay endpoint")
	whisperModel := pflag.String("whisper-model", "", "path to whisper.cpp model")
	voiceName := pflag.String("voice", "", "synthesizer voice name")
	voiceRate := pflag.Float64("rate", 0, "speech rate multiplier")
	noMicFlag := pflag.Bool("no-mic", false, "disable microphone capture")
	pflag.Parse()

	cfg := config.Load(*envFile)
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *chatURL != "" {
		cfg.ChatURL = *chatURL
	}
	if *whisperModel != "" {
		cfg.WhisperModel = *whisperModel
	}
	if *voiceName != "" {
		cfg.VoiceName = *voiceName
	}
	if *voiceRate > 0 {
		cfg.VoiceRate = *voiceRate
	}

	log.Init(cfg.LogLevel)

	endpoint := reply.NewClient(cfg.ChatURL, reply.WithClientLogger(log.L()))
	orch, err := reply.NewOrchestrator(endpoint, reply.WithLogger(log.L()))
	if err != nil {
		log.Error("orchestrator setup failed", "error", err)
		os.Exit(1)
	}

	engine, err := synth.NewEspeakEngine(log.L())
	if err != nil {
		log.Error("speech synthesis unavailable", "error", err)
		os.Exit(1)
	}
	defer engine.Close()

	speaker := synth.NewSpeaker(engine,
		synth.WithRate(cfg.VoiceRate),
		synth.WithVoiceKey(cfg.VoiceName),
		synth.WithSpeakerLogger(log.L()),
	)

	listener, micCleanup := buildListener(cfg, *noMicFlag)
	defer micCleanup()

	vis := visualizer.New(renderBars)
	cues := cue.NewPlayer(log.L())

	a := assistant.New(orch, speaker, listener, vis,
		assistant.WithLogger(log.L()),
		assistant.WithStatusFunc(func(st assistant.Status) {
			fmt.Printf("\r\033[K· %s\n", st.Label)
		}),
		assistant.WithMessageFunc(printMessage),
	)
	if cfg.CustomKey != "" {
		a.SetCredential(cfg.CustomKey)
	}

	fmt.Println("P.O.O.J.A. — type a message, /help for commands")
	printMessage(a.Log().Messages()[0])

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		fmt.Println()
		speaker.Stop()
		listener.Stop()
		micCleanup()
		engine.Close()
		os.Exit(0)
	}()

	runREPL(a, engine, speaker, cues)
}

// buildListener wires the microphone pipeline, falling back to a disabled
// listener when capture cannot start.
func buildListener(cfg config.Config, disabled bool) (*capture.Listener, func()) {
	if disabled {
		return capture.NewListener(noMic{}, log.L()), func() {}
	}

	rec := capture.NewRecorder()
	if err := rec.Init(); err != nil {
		log.Warn("microphone unavailable", "error", err)
		return capture.NewListener(noMic{}, log.L()), func() {}
	}

	tr, err := capture.NewTranscriber(cfg.WhisperModel)
	if err != nil {
		log.Warn("speech recognition unavailable", "model", cfg.WhisperModel, "error", err)
		rec.Close()
		return capture.NewListener(noMic{}, log.L()), func() {}
	}

	mic := capture.NewMicRecognizer(rec, tr, log.L())
	cleanup := func() {
		tr.Close()
		rec.Close()
	}
	return capture.NewListener(mic, log.L()), cleanup
}

func runREPL(a *assistant.Assistant, engine *synth.EspeakEngine, speaker *synth.Speaker, cues *cue.Player) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if !strings.HasPrefix(line, "/") {
			go submit(a, line)
			continue
		}

		cmd, arg, _ := strings.Cut(line[1:], " ")
		switch cmd {
		case "quit", "exit":
			return
		case "help":
			printHelp()
		case "clear":
			a.Reset()
		case "mic":
			if !a.Listening() {
				cues.Listen()
			}
			a.ToggleListening()
		case "voices":
			for _, v := range engine.Voices() {
				fmt.Printf("  %3d  %-24s %s\n", v.Index, v.Name, v.Language)
			}
		case "voice":
			speaker.SetVoice(strings.TrimSpace(arg))
		case "rate":
			r, ok := ratePresets[strings.TrimSpace(arg)]
			if !ok {
				var err error
				r, err = strconv.ParseFloat(strings.TrimSpace(arg), 64)
				if err != nil {
					fmt.Println("usage: /rate <multiplier|slow|normal|fast|veryfast>")
					continue
				}
			}
			speaker.SetRate(r)
			fmt.Printf("rate set to %.2f\n", speaker.Rate())
		case "key":
			a.SetCredential(arg)
		case "status":
			fmt.Println(a.Status().Label)
		default:
			fmt.Println("unknown command, /help for the list")
		}
	}
}

func submit(a *assistant.Assistant, text string) {
	if err := a.SubmitText(context.Background(), text); err != nil {
		if err == assistant.ErrBusy {
			fmt.Println("· Still working on the last message")
			return
		}
		log.Warn("turn failed", "error", err)
	}
}

func printMessage(m chat.Message) {
	who := "You"
	if m.Role == chat.RoleAssistant {
		who = "Pooja"
	}
	fmt.Printf("\r\033[K[%s] %s: %s\n", m.Time, who, m.Text)
}

// renderBars draws one visualizer frame in place on stderr.
func renderBars(levels []float64) {
	runes := []rune(barRunes)
	var b strings.Builder
	b.WriteString("\r")
	for _, lv := range levels {
		idx := int(lv * float64(len(runes)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(runes) {
			idx = len(runes) - 1
		}
		b.WriteRune(runes[idx])
	}
	fmt.Fprint(os.Stderr, b.String())
}

func printHelp() {
	fmt.Println(`  /mic            toggle microphone capture
  /clear          reset the conversation
  /voices         list synthesizer voices
  /voice <name>   select a voice (blank for default)
  /rate <mult>    set speech rate (or slow, normal, fast, veryfast)
  /key <key>      set a custom relay API key (blank to clear)
  /status         show current status
  /quit           exit`)
}
