package session

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
)

type authCode struct {
	code  string
	state string
}

// callbackListener serves the OAuth redirect on a loopback address. Exactly
// one code is delivered through codes, then the server shuts down; the
// channel closes when the listener stops, delivered or not.
type callbackListener struct {
	server *http.Server
	addr   string
	codes  chan authCode
	once   sync.Once
}

func startCallbackListener(addr string) (*callbackListener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("bind callback listener on %s: %w", addr, err)
	}

	listener := &callbackListener{
		addr:  ln.Addr().String(),
		codes: make(chan authCode, 1),
	}
	listener.server = &http.Server{Handler: http.HandlerFunc(listener.handle)}

	go func() {
		_ = listener.server.Serve(ln)
		listener.once.Do(func() { close(listener.codes) })
	}()

	return listener, nil
}

func (l *callbackListener) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet || r.URL.Path != "/callback" {
		writePlain(w, http.StatusNotFound, "Not Found")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writePlain(w, http.StatusNotFound, "Not Found")
		return
	}

	writePlain(w, http.StatusOK, "You can close this tab and return to the app.")

	delivered := false
	l.once.Do(func() {
		l.codes <- authCode{code: code, state: r.URL.Query().Get("state")}
		close(l.codes)
		delivered = true
	})

	if delivered {
		go l.server.Shutdown(context.Background())
	}
}

// Stop closes the listener. If no code was delivered yet, the codes channel
// closes empty, which waiting callers treat as a canceled authorization.
func (l *callbackListener) Stop() {
	l.once.Do(func() { close(l.codes) })
	_ = l.server.Close()
}

func writePlain(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
