package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"doganjib/internal/llm"
	"doganjib/internal/voice"
)

var assistantCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Order by talking to the voice assistant",
	Long: `Start a conversation with the ordering assistant. Speak (or type) in
Korean; the assistant resolves dinners, serving styles, and dish changes
against the menu and puts the confirmed order in your cart.`,
	RunE: runAssistant,
}

func runAssistant(cmd *cobra.Command, args []string) error {
	if !client.Authenticated() {
		return fmt.Errorf("sign in first: doganjib login")
	}

	model, err := llm.NewRegistry().Model(cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to initialize assistant model: %w", err)
	}

	interp := voice.NewInterpreter(model, cfg.LLM.Temperature, cfg.LLM.MaxTokens, logger)
	if profile, err := store.Profile(); err == nil && profile != nil {
		interp.SetCustomerName(profile.Name)
	}
	session := voice.NewSession(interp, client, client, store, logger)

	recognizer := voice.NewTerminalRecognizer(os.Stdin)
	var synth voice.Synthesizer
	if cfg.Assistant.Muted {
		synth = voice.MutedSynthesizer{}
	} else {
		terminal := voice.NewTerminalSynthesizer(os.Stdout, "")
		terminal.SetRenderer(func(s string) string { return assistantStyle.Render(s) })
		synth = terminal
	}

	ctx := cmd.Context()
	reply, err := session.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	speak(ctx, synth, reply.Message)

	for {
		fmt.Print(customerPrefix)
		utterance, err := recognizer.Listen(ctx)
		if err != nil {
			session.Abort()
			if errors.Is(err, io.EOF) || errors.Is(err, ctx.Err()) {
				fmt.Println(mutedStyle.Render("대화를 종료했어요."))
				return nil
			}
			return err
		}

		reply, err = session.HandleUtterance(ctx, utterance)
		if err != nil {
			session.Abort()
			return err
		}
		speak(ctx, synth, reply.Message)

		if reply.Done {
			if reply.Added != nil {
				fmt.Println(mutedStyle.Render("장바구니를 확인하려면: doganjib cart"))
			}
			return nil
		}
	}
}

func speak(ctx context.Context, synth voice.Synthesizer, message string) {
	if err := synth.Speak(ctx, message); err != nil {
		logger.Warn("failed to deliver assistant reply")
	}
}
