// Package asr implements the websocket transport to the transcription
// service: one connection per recording session, authenticated with a
// cached token, carrying binary audio frames out and JSON transcript
// events back.
package asr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"coldmic/internal/domain"
	"coldmic/internal/ports"
)

// Config controls the streaming endpoint.
type Config struct {
	APIBaseURL string
}

// Provider implements ports.TranscriptionProvider.
type Provider struct {
	cfg    Config
	tokens ports.TokenSource
}

func NewProvider(cfg Config, tokens ports.TokenSource) *Provider {
	return &Provider{cfg: cfg, tokens: tokens}
}

func (p *Provider) StartStreaming(ctx context.Context, cfg ports.StreamingConfig) (ports.StreamingSession, error) {
	token, err := p.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", domain.ErrorCodeTokenFetchFailed, err)
	}

	wsURL, err := streamURL(p.cfg.APIBaseURL)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, http.Header{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", domain.ErrorCodeTransportConnect, err)
	}

	session := &streamingSession{
		conn:   conn,
		events: make(chan domain.TranscriptEvent, 64),
		audio:  make(chan []byte, 64),
		done:   make(chan struct{}),
	}

	auth := authMessage{
		Type:          "auth",
		Token:         token,
		AppContext:    string(cfg.Context.AppContextTag),
		AppName:       cfg.Context.AppName,
		WindowTitle:   cfg.Context.WindowTitle,
		SelectedText:  cfg.Context.SelectedText,
		ClipboardText: cfg.Context.ClipboardText,
		ModeID:        cfg.Context.ModeID,
	}
	payload, err := json.Marshal(auth)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to encode auth message: %w", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: failed to send auth message: %w", domain.ErrorCodeTransportConnect, err)
	}

	session.wg.Add(2)
	go session.readLoop()
	go session.writeLoop()
	go func() {
		session.wg.Wait()
		close(session.events)
		close(session.done)
		_ = conn.Close()
	}()

	go func() {
		<-ctx.Done()
		_ = session.Close()
	}()

	return session, nil
}

func streamURL(base string) (string, error) {
	base = strings.TrimSpace(base)
	if strings.HasPrefix(base, "https://") {
		base = "wss://" + strings.TrimPrefix(base, "https://")
	} else if strings.HasPrefix(base, "http://") {
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	base = strings.TrimRight(base, "/")
	if base == "" {
		return "", errors.New("transport API base URL is not configured")
	}
	return base + "/ws/transcribe", nil
}

type authMessage struct {
	Type          string  `json:"type"`
	Token         string  `json:"token"`
	AppContext    string  `json:"app_context"`
	AppName       string  `json:"app_name"`
	WindowTitle   string  `json:"window_title"`
	SelectedText  *string `json:"selected_text,omitempty"`
	ClipboardText *string `json:"clipboard_text,omitempty"`
	ModeID        string  `json:"mode_id,omitempty"`
}

type streamingSession struct {
	conn *websocket.Conn

	events chan domain.TranscriptEvent
	audio  chan []byte
	done   chan struct{}

	wg sync.WaitGroup

	errMu sync.Mutex
	err   error

	closeSendOnce sync.Once
	closeOnce     sync.Once
	sendMu        sync.RWMutex
	sendClosed    bool
}

// SendAudio queues one chunk as a binary frame. Chunks are sent in
// arrival order and never reordered.
func (s *streamingSession) SendAudio(chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}

	s.sendMu.RLock()
	closed := s.sendClosed
	s.sendMu.RUnlock()
	if closed {
		return errors.New("audio stream is already closed")
	}

	copied := append([]byte(nil), chunk...)
	select {
	case s.audio <- copied:
		return nil
	case <-s.done:
		if err := s.waitErr(); err != nil {
			return err
		}
		return errors.New("session closed")
	}
}

// SendStop queues the textual stop control message. The connection
// itself is left open: closure is the caller's responsibility, deferred
// until a Final arrives or the final-timeout elapses.
func (s *streamingSession) SendStop() error {
	s.closeSendOnce.Do(func() {
		s.sendMu.Lock()
		s.sendClosed = true
		close(s.audio)
		s.sendMu.Unlock()
	})
	return nil
}

func (s *streamingSession) Events() <-chan domain.TranscriptEvent {
	return s.events
}

func (s *streamingSession) Wait() error {
	<-s.done
	return s.waitErr()
}

func (s *streamingSession) Close() error {
	s.closeOnce.Do(func() {
		_ = s.SendStop()
		_ = s.conn.Close()
	})
	<-s.done
	return s.waitErr()
}

func (s *streamingSession) waitErr() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

func (s *streamingSession) setErr(err error) {
	if err == nil {
		return
	}
	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	) {
		return
	}
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func (s *streamingSession) writeLoop() {
	defer s.wg.Done()

	for chunk := range s.audio {
		if err := s.conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
			s.setErr(fmt.Errorf("failed to send audio: %w", err))
			return
		}
	}

	if err := s.conn.WriteMessage(websocket.TextMessage, []byte("stop")); err != nil {
		s.setErr(fmt.Errorf("failed to send stop message: %w", err))
	}
}

func (s *streamingSession) readLoop() {
	defer s.wg.Done()

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			s.setErr(fmt.Errorf("%s: %w", domain.ErrorCodeTransportClosed, err))
			return
		}

		var frame wireFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			continue
		}

		// The server's error frame is the untagged {"error": "..."} shape,
		// with no "type" field, so it must be checked before dispatching on
		// frame.Type.
		if frame.Error != "" {
			s.emit(domain.TranscriptEvent{Kind: domain.TranscriptKindError, Message: frame.Error})
			s.setErr(errors.New(frame.Error))
			return
		}

		switch frame.Type {
		case "partial":
			s.emit(domain.TranscriptEvent{Kind: domain.TranscriptKindPartial, Partial: frame.Partial, Confirmed: frame.Confirmed})
		case "final":
			text := frame.Text
			if text == "" {
				text = frame.Raw
			}
			s.emit(domain.TranscriptEvent{Kind: domain.TranscriptKindFinal, Text: text})
			return
		}
	}
}

func (s *streamingSession) emit(event domain.TranscriptEvent) {
	select {
	case s.events <- event:
	case <-s.done:
	default:
	}
}

type wireFrame struct {
	Type      string `json:"type"`
	Partial   string `json:"partial"`
	Confirmed string `json:"confirmed"`
	Text      string `json:"text"`
	Raw       string `json:"raw"`
	Error     string `json:"error"`
}
