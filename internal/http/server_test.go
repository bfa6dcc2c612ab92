package http

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return addr
}

func TestServerShutdownBeforeRun(t *testing.T) {
	s := &Server{Engine: gin.New()}
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown before run: %v", err)
	}
}

func TestServerRunStopsCleanlyOnShutdown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := &Server{Engine: gin.New()}
	addr := freeAddr(t)

	done := make(chan error, 1)
	go func() { done <- s.Run(addr) }()

	// Wait for the listener to come up.
	var up bool
	for i := 0; i < 100; i++ {
		conn, err := net.Dial("tcp", addr)
		if err == nil {
			conn.Close()
			up = true
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !up {
		t.Fatalf("server never started listening on %s", addr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned %v after shutdown, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after shutdown")
	}
}
