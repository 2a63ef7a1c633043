// ABOUTME: Entry point for the Coursely companion player
// ABOUTME: Parses CLI flags and wires the service link, app, and TUI
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coursely/coursely-go/internal/app"
	"github.com/coursely/coursely-go/internal/audio"
	"github.com/coursely/coursely-go/internal/client"
	"github.com/coursely/coursely-go/internal/discovery"
	"github.com/coursely/coursely-go/internal/protocol"
	"github.com/coursely/coursely-go/internal/ui"
	"github.com/coursely/coursely-go/internal/version"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

var (
	serverAddr = flag.String("server", "", "Manual service address (skip mDNS)")
	port       = flag.Int("port", 8937, "Port for mDNS advertisement")
	name       = flag.String("name", "", "Player friendly name (default: hostname-coursely)")
	sampleRate = flag.Int("sample-rate", audio.DefaultSampleRate, "Expected PCM payload sample rate")
	logFile    = flag.String("log-file", "coursely.log", "Log file path")
	noTUI      = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
)

func main() {
	flag.Parse()

	useTUI := !*noTUI

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	// Determine player name
	playerName := *name
	if playerName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		playerName = fmt.Sprintf("%s-coursely", hostname)
	}

	// TUI setup
	var tuiProg *tea.Program
	ctrl := ui.NewControl()

	if useTUI {
		tuiProg, err = ui.Run(ctrl)
		if err != nil {
			log.Fatalf("Failed to start TUI: %v", err)
		}
		go tuiProg.Run()
	}

	publish := func(msg ui.StatusMsg) {
		if tuiProg != nil {
			tuiProg.Send(msg)
		}
	}

	// Find the companion service if no manual address was given
	serviceAddr := *serverAddr
	if serviceAddr == "" {
		log.Printf("Searching for companion service...")
		disc := discovery.NewManager(discovery.Config{
			PlayerName: playerName,
			Port:       *port,
		})
		disc.Advertise()
		disc.Browse()

		select {
		case service := <-disc.Services():
			serviceAddr = fmt.Sprintf("%s:%d", service.Host, service.Port)
			log.Printf("Discovered service at %s", serviceAddr)
		case <-time.After(10 * time.Second):
			log.Fatalf("No companion service found after 10 seconds")
		}
		disc.Stop()
	}

	// Connect to the service
	c := client.NewClient(client.Config{
		ServerAddr: serviceAddr,
		ClientID:   uuid.New().String(),
		Name:       playerName,
		Version:    1,
		DeviceInfo: protocol.DeviceInfo{
			ProductName:     version.Product,
			Manufacturer:    version.Manufacturer,
			SoftwareVersion: version.Version,
		},
	})
	if err := c.Connect(); err != nil {
		log.Fatalf("Connection failed: %v", err)
	}
	log.Printf("Connected to companion service: %s", serviceAddr)

	connected := true
	publish(ui.StatusMsg{Connected: &connected, ServiceName: serviceAddr})

	// Start the application
	a := app.New(app.Config{
		ServerAddr: serviceAddr,
		PlayerName: playerName,
		SampleRate: *sampleRate,
	}, c, publish)

	go a.Serve(c, ctrl)

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctrl.Quit:
		log.Printf("Received quit signal from TUI")
	case <-sigChan:
		log.Printf("Shutdown signal received")
	}

	a.Stop()
	c.Close()

	log.Printf("Player stopped")
}
