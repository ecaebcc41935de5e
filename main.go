package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/example/chat-relay/modules/gateway"
	"github.com/example/chat-relay/modules/registry"
	"github.com/example/chat-relay/modules/router"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== chat-relay - room-based chat over WebSocket ===")

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Wire modules: the registry owns session state, the router fans events
	// out through the gateway's connection table, and the gateway hosts the
	// WebSocket channel.
	registryModule := registry.NewModule()
	table := gateway.NewConnTable()
	relayRouter := router.New(registryModule.Store(), table)
	gatewayModule := gateway.NewModule(gateway.ConfigFromEnv(), relayRouter, registryModule.Store(), table)

	app.Register(registryModule)
	app.Register(gatewayModule)

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3500"
	}

	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("HTTP endpoints (http://localhost:%s):", port)
	log.Println("  GET  /health                   - Health check")
	log.Println("  GET  /api/v1/rooms             - List active rooms")
	log.Println("  GET  /api/v1/rooms/:room/users - List users in a room")
	log.Println("  GET  /                         - Static chat client")
	log.Println("")
	log.Printf("WebSocket endpoint (ws://localhost:%s/ws):", port)
	log.Println("  Inbound events:  enterRoom, message, activity")
	log.Println("  Outbound events: message, userList, roomList, activity")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
