package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yourusername/yt-audio-go/internal/app"
	"github.com/yourusername/yt-audio-go/internal/domain"
	"github.com/yourusername/yt-audio-go/internal/infrastructure"
	"github.com/yourusername/yt-audio-go/pkg/logger"
)

var (
	outputDir  string
	noConfirm  bool
	configPath string

	rootCmd = &cobra.Command{
		Use:   "yt-audio [url]",
		Short: "Download YouTube videos or playlists as high-quality MP3s",
		Long: `yt-audio downloads the audio track of a YouTube video or playlist and
converts it to 320 kbps MP3 files via yt-dlp and FFmpeg.`,
		Args: cobra.ExactArgs(1),
		Run:  run,
	}
)

func init() {
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "downloads", "Output directory")
	rootCmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "Skip confirmation for playlist downloads")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Config file path")
}

func run(cmd *cobra.Command, args []string) {
	url := args[0]

	if err := domain.ValidateURL(url); err != nil {
		fmt.Fprintln(os.Stderr, "Error: Please provide a valid YouTube URL")
		os.Exit(1)
	}

	config, err := app.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	fmt.Printf("Processing URL: %s\n", url)
	fmt.Printf("Output directory: %s\n", outputDir)
	fmt.Println(strings.Repeat("-", 50))

	request := domain.NewRequest(url, outputDir, noConfirm)
	extractor := infrastructure.NewYTDLPExtractor(&config.Download, request.OutputDir, request.ID, os.Stdout, zapLogger)
	tools := infrastructure.NewToolChecker(&config.Download, zapLogger)
	notifier := infrastructure.NewNotificationService(&config.Notification, zapLogger)
	service := app.NewAudioService(extractor, tools, notifier, zapLogger, os.Stdin, os.Stdout)

	outcome := service.DownloadAudio(context.Background(), request)
	if !outcome.Success() {
		fmt.Println("\nDownload failed!")
		os.Exit(1)
	}
	fmt.Println("\nAll downloads completed successfully!")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
