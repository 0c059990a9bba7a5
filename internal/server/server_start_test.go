package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/example/go-texttok/internal/config"
	"github.com/example/go-texttok/internal/tokenizer"
)

func TestStart_LifecycleEncodeAndShutdown(t *testing.T) {
	// Find an available port.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	addr := ln.Addr().String()
	ln.Close() // free it for the server

	tok, err := tokenizer.New([]string{"hello world", "hello there"}, tokenizer.Options{})
	if err != nil {
		t.Fatalf("tokenizer.New() error = %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Server.ListenAddr = addr

	s := New(cfg, tok).WithShutdownTimeout(2 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)

	go func() {
		errCh <- s.Start(ctx)
	}()

	// Wait for the server to be ready.
	for i := 0; i < 50; i++ {
		err = ProbeHTTP(addr)
		if err == nil {
			break
		}

		time.Sleep(20 * time.Millisecond)
	}

	if err != nil {
		t.Fatalf("server never became ready: %v", err)
	}

	client := &http.Client{Timeout: 2 * time.Second}

	resp, err := client.Post(fmt.Sprintf("http://%s/encode", addr), "application/json",
		strings.NewReader(`{"text":"Hello, world!"}`))
	if err != nil {
		t.Fatalf("POST /encode: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/encode status = %d; want 200", resp.StatusCode)
	}

	var body struct {
		Tokens []int `json:"tokens"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode /encode: %v", err)
	}

	if len(body.Tokens) != 2 || body.Tokens[0] != 1 || body.Tokens[1] != 2 {
		t.Errorf("tokens = %v; want [1 2]", body.Tokens)
	}

	// Graceful shutdown.
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Start() returned error on shutdown: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return within 5s of context cancel")
	}
}

func TestStart_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	tok, err := tokenizer.New([]string{"a b"}, tokenizer.Options{})
	if err != nil {
		t.Fatalf("tokenizer.New() error = %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Server.ListenAddr = ln.Addr().String()

	err = New(cfg, tok).Start(context.Background())
	if err == nil {
		t.Fatal("Start() = nil; want error for an address already in use")
	}
}

func TestStart_AppliesConfiguredMaxTokens(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	addr := ln.Addr().String()
	ln.Close()

	tok, err := tokenizer.New([]string{"hello world"}, tokenizer.Options{})
	if err != nil {
		t.Fatalf("tokenizer.New() error = %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Server.ListenAddr = addr
	cfg.Server.MaxTokens = 2

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)

	go func() {
		errCh <- New(cfg, tok).WithShutdownTimeout(2 * time.Second).Start(ctx)
	}()

	for i := 0; i < 50; i++ {
		err = ProbeHTTP(addr)
		if err == nil {
			break
		}

		time.Sleep(20 * time.Millisecond)
	}

	if err != nil {
		t.Fatalf("server never became ready: %v", err)
	}

	client := &http.Client{Timeout: 2 * time.Second}

	resp, err := client.Post(fmt.Sprintf("http://%s/decode", addr), "application/json",
		strings.NewReader(`{"tokens":[1,2,1]}`))
	if err != nil {
		t.Fatalf("POST /decode: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("/decode status = %d; want 413", resp.StatusCode)
	}

	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Start() returned error on shutdown: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return within 5s of context cancel")
	}
}
