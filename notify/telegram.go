// Copyright (c) 2025 BVK Chaitanya

// Package notify implements a send-only Telegram notifier for bot
// lifecycle events (created, stopped, deleted). Notifications are
// optional; a nil *Client sends nothing.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
)

type Secrets struct {
	BotToken string `json:"token"`

	ChatID string `json:"chat"`
}

func (v *Secrets) Check() error {
	if len(v.BotToken) == 0 {
		return fmt.Errorf("bot token cannot be empty")
	}
	if len(v.ChatID) == 0 {
		return fmt.Errorf("chat id cannot be empty")
	}
	return nil
}

type Client struct {
	bot *bot.Bot

	chatID string
}

func New(secrets *Secrets) (*Client, error) {
	if err := secrets.Check(); err != nil {
		return nil, err
	}
	b, err := bot.New(secrets.BotToken)
	if err != nil {
		return nil, fmt.Errorf("could not create telegram bot: %w", err)
	}
	return &Client{bot: b, chatID: secrets.ChatID}, nil
}

// SendMessage delivers the text to the configured chat. Safe on a nil
// receiver.
func (c *Client) SendMessage(ctx context.Context, at time.Time, text string) error {
	if c == nil {
		return nil
	}
	msg := at.Format("2006-01-02 15:04:05 MST") + " " + text
	m := &bot.SendMessageParams{
		ChatID: c.chatID,
		Text:   msg,
	}
	if _, err := c.bot.SendMessage(ctx, m); err != nil {
		return fmt.Errorf("could not send telegram message: %w", err)
	}
	return nil
}

// BestEffortSend logs and swallows delivery failures. Lifecycle
// commands must not fail because a notification could not go out.
func (c *Client) BestEffortSend(ctx context.Context, text string) {
	if c == nil {
		return
	}
	if err := c.SendMessage(ctx, time.Now(), text); err != nil {
		slog.Warn("could not deliver notification (ignored)", "err", err)
	}
}
