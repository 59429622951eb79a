package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"shortsmith/config"
	"shortsmith/pipeline"
	"shortsmith/tui"
	"shortsmith/types"
	"shortsmith/video"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment
	_ = godotenv.Load()
	config.InitLogger()
	// The TUI owns the terminal.
	config.Log.SetOutput(io.Discard)

	id := flag.String("id", "", "Content id whose assets are under the temp directory")
	background := flag.String("background", "minecraft", "Background name")
	logo := flag.String("logo", "assets/logo.png", "Logo image")
	animation := flag.String("animation", "assets/animation.mp4", "Animation clip")
	comments := flag.Int("comments", 0, "Number of comment segments")
	flag.Parse()

	if *id == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect -id <content id> [flags]")
		os.Exit(2)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Printf("Error loading settings: %v\n", err)
		os.Exit(1)
	}
	bg, err := config.LookupBackground(*background)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	renderer := &pipeline.Renderer{Settings: settings, Prober: video.FFProbe{}}
	job := pipeline.Job{
		CommentCount:  *comments,
		Content:       types.Content{ThreadID: *id},
		Background:    bg,
		LogoPath:      *logo,
		AnimationPath: *animation,
	}

	// Create TUI model
	m := tui.NewModel(*id, func() (*video.Scene, error) { return renderer.Plan(job) })
	program := tea.NewProgram(m)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
