package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tallybank/tallybank/scripts/internal"
)

// Command represents a script that can be run
type Command struct {
	Name        string
	Description string
	Run         func() error
}

var commands = []Command{
	{
		Name:        "generate-secret",
		Description: "Generate a random token signing secret",
		Run:         internal.GenerateSecret,
	},
	{
		Name:        "check-kafka",
		Description: "Check that the configured kafka brokers are reachable",
		Run:         internal.CheckKafkaConnection,
	},
	{
		Name:        "seed",
		Description: "Seed a demo customer, account and invoice",
		Run:         internal.SeedDemoData,
	},
}

func main() {
	// Define command line flags
	var (
		listCommands bool
		cmdName      string
		username     string
	)

	flag.BoolVar(&listCommands, "list", false, "List all available commands")
	flag.StringVar(&cmdName, "cmd", "", "Command to run")
	flag.StringVar(&username, "username", "", "Username owning the seeded records")

	flag.Parse()

	if listCommands {
		fmt.Println("Available commands:")
		for _, cmd := range commands {
			fmt.Printf("  %-20s %s\n", cmd.Name, cmd.Description)
		}
		return
	}

	if cmdName == "" {
		log.Fatal("Please specify a command to run using -cmd flag. Use -list to see available commands.")
	}

	// Set command-specific environment variables
	if username != "" {
		os.Setenv("SCRIPT_USERNAME", username)
	}

	// Find and run the command
	for _, cmd := range commands {
		if cmd.Name == cmdName {
			if err := cmd.Run(); err != nil {
				log.Fatalf("Error running command %s: %v", cmdName, err)
			}
			return
		}
	}

	log.Fatalf("Unknown command: %s. Use -list to see available commands.", cmdName)
}
