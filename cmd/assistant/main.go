package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/slotdesk/slotdesk/internal/appointments"
	"github.com/slotdesk/slotdesk/internal/assistant"
	appconfig "github.com/slotdesk/slotdesk/internal/config"
	"github.com/slotdesk/slotdesk/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.NewDev(cfg.LogLevel)

	if cfg.GeminiAPIKey == "" {
		fmt.Fprintln(os.Stderr, "GEMINI_API_KEY is required")
		os.Exit(1)
	}

	schedule := appointments.DefaultSchedule()
	schedule.OpenHour = cfg.OpenHour
	schedule.CloseHour = cfg.CloseHour
	schedule.BreakStartHour = cfg.BreakStartHour
	schedule.BreakEndHour = cfg.BreakEndHour
	schedule.WindowDays = cfg.BookingWindowDays

	booker := assistant.NewHTTPBooker(cfg.APIBaseURL)
	tool := assistant.NewBookingTool(booker, schedule, logger)

	ctx := context.Background()
	a, err := assistant.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID, tool, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start assistant: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = a.Close() }()

	session := a.StartSession()

	fmt.Println("Welcome to the appointment booking assistant.")
	fmt.Println("Ask me to book an appointment. Type 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nYou: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "exit") {
			fmt.Println("Goodbye!")
			break
		}

		reply, err := session.Send(ctx, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "assistant error: %v\n", err)
			continue
		}
		fmt.Printf("Assistant: %s\n", reply)
	}
}
