package assist

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/crewdeck/crewdeck/internal/storage"
)

// REPL is the interactive assistant shell
type REPL struct {
	store        storage.Storage
	rl           *readline.Instance
	ctx          context.Context
	conversation *Conversation
	commands     map[string]commandHandler
}

type commandHandler func(args []string) error

// NewREPL creates a REPL over the given store
func NewREPL(store storage.Storage) (*REPL, error) {
	if store == nil {
		return nil, fmt.Errorf("storage is required")
	}

	r := &REPL{
		store:    store,
		commands: make(map[string]commandHandler),
	}
	r.registerCommands()
	return r, nil
}

// Run starts the REPL loop
func (r *REPL) Run(ctx context.Context) error {
	r.ctx = ctx

	cyan := color.New(color.FgCyan).SprintFunc()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            cyan("crewdeck> "),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()
	r.rl = rl

	r.printWelcome()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			} else if err == io.EOF {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := r.processInput(line); err != nil {
			if err == io.EOF {
				return nil
			}
			red := color.New(color.FgRed).SprintFunc()
			fmt.Printf("%s %v\n", red("Error:"), err)
		}
	}
}

// processInput runs a slash command, or hands the line to the assistant
func (r *REPL) processInput(line string) error {
	parts := strings.Fields(line)
	command := parts[0]

	if handler, ok := r.commands[command]; ok {
		return handler(parts[1:])
	}

	return r.processNaturalLanguage(line)
}

func (r *REPL) processNaturalLanguage(input string) error {
	if r.conversation == nil {
		conv, err := NewConversation(r.store)
		if err != nil {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Printf("\n%s AI conversation requires ANTHROPIC_API_KEY environment variable.\n", yellow("Note:"))
			fmt.Println("Set your API key and restart to enable AI features.")
			fmt.Println()
			return nil
		}
		r.conversation = conv
	}

	gray := color.New(color.FgHiBlack).SprintFunc()
	fmt.Printf("%s\n", gray("Thinking..."))

	response, err := r.conversation.SendMessage(r.ctx, input)
	if err != nil {
		return fmt.Errorf("AI conversation failed: %w", err)
	}

	fmt.Println()
	fmt.Println(response)
	fmt.Println()
	return nil
}

func (r *REPL) registerCommands() {
	r.commands["help"] = r.cmdHelp
	r.commands["?"] = r.cmdHelp
	r.commands["status"] = r.cmdStatus
	r.commands["clear"] = r.cmdClear
	r.commands["exit"] = r.cmdExit
	r.commands["quit"] = r.cmdExit
}

func (r *REPL) printWelcome() {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("\n%s\n", cyan("Crewdeck assistant"))
	fmt.Println("Ask about tasks, duties, goals, and KPIs in plain language.")
	fmt.Println()
	fmt.Println("Type 'help' for commands, 'exit' to quit")
	fmt.Println()
}

func (r *REPL) cmdHelp(args []string) error {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Println()
	fmt.Printf("  %s  Show this help message\n", green("help, ?"))
	fmt.Printf("  %s  Show store statistics\n", green("status "))
	fmt.Printf("  %s  Clear the conversation history\n", green("clear  "))
	fmt.Printf("  %s  Exit the assistant\n", green("exit   "))
	fmt.Println()
	fmt.Println("Anything else is sent to the assistant:")
	fmt.Println("  'create a bug for the broken login flow'")
	fmt.Println("  'put Ana on call next week'")
	fmt.Println("  'how is deploy frequency trending?'")
	fmt.Println()
	return nil
}

func (r *REPL) cmdStatus(args []string) error {
	stats, err := r.store.GetStatistics(r.ctx)
	if err != nil {
		return fmt.Errorf("failed to get statistics: %w", err)
	}

	fmt.Println()
	fmt.Printf("Tasks: %d total (%d open, %d in progress, %d blocked, %d done)\n",
		stats.TotalTasks, stats.OpenTasks, stats.InProgressTasks, stats.BlockedTasks, stats.DoneTasks)
	fmt.Printf("Sync items: %d\n", stats.SyncItems)
	fmt.Printf("Members: %d active, duties: %d active, goals: %d active\n",
		stats.ActiveMembers, stats.ActiveDuties, stats.ActiveGoals)
	fmt.Printf("Unread notifications: %d\n", stats.UnreadNotifications)
	fmt.Println()
	return nil
}

func (r *REPL) cmdClear(args []string) error {
	if r.conversation != nil {
		r.conversation.ClearHistory()
	}
	fmt.Println("Conversation history cleared")
	return nil
}

func (r *REPL) cmdExit(args []string) error {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("\n%s Goodbye!\n", green("✓"))
	r.rl.Close()
	return io.EOF
}
