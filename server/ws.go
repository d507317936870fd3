package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/FlorianDenis/Belote/log"
	"github.com/FlorianDenis/Belote/transport"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// startWS serves the same line protocol over websocket, one message per
// line. Links joined here are indistinguishable from TCP ones.
func (s *Server) startWS() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Errorf("server: websocket upgrade: %v", err)
			return
		}
		s.onAccept(transport.NewWSConn(conn))
	})

	svr := &http.Server{
		Addr:    s.opts.WSAddr,
		Handler: mux,
	}

	s.wsCloser = func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		svr.Shutdown(ctx)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Infof("server: websocket listening on %s", s.opts.WSAddr)
		if err := svr.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("server: websocket: %v", err)
		}
	}()
	return nil
}
