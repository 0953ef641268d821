package telegram

import (
	"net/http"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const defaultTimeout = 30 * time.Second

// Client posts messages to one channel through the Bot API.
type Client struct {
	api     *tgbotapi.BotAPI
	token   string
	channel string
	log     *logrus.Entry
}

// Option tweaks a Client
type Option func(*Client)

// WithEndpoint points the client at a different Bot API host. The format
// follows tgbotapi.APIEndpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.api.SetAPIEndpoint(endpoint) }
}

// WithHTTPClient replaces the default 30s-timeout HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.api.Client = hc }
}

// NewClient builds a client for channel, which is either "@name" or a
// numeric chat id. No request is made until Send.
func NewClient(token, channel string, log *logrus.Entry, opts ...Option) *Client {
	// Built by hand: NewBotAPI would call getMe before the first send.
	api := &tgbotapi.BotAPI{
		Token:  token,
		Client: &http.Client{Timeout: defaultTimeout},
		Buffer: 100,
	}
	api.SetAPIEndpoint(tgbotapi.APIEndpoint)

	c := &Client{
		api:     api,
		token:   token,
		channel: channel,
		log:     log.WithField("component", "telegram"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send delivers a Markdown message and reports whether Telegram accepted it.
// Failures are logged, never returned.
func (c *Client) Send(message string) bool {
	if c.token == "" || c.channel == "" {
		c.log.Error("❌ Telegram bot token or channel ID not configured")
		return false
	}

	msg := c.newMessage(message)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = false

	if _, err := c.api.Send(msg); err != nil {
		c.log.WithError(err).Error("❌ Failed to send message to Telegram")
		return false
	}
	c.log.Info("✅ Message sent to Telegram successfully")
	return true
}

// SendStatus posts a plain-text run summary.
func (c *Client) SendStatus(text string) bool {
	if c.token == "" || c.channel == "" {
		return false
	}
	if _, err := c.api.Send(c.newMessage("ℹ️ " + text)); err != nil {
		c.log.WithError(err).Warn("⚠️ Failed to send status to Telegram")
		return false
	}
	return true
}

func (c *Client) newMessage(text string) tgbotapi.MessageConfig {
	if id, err := strconv.ParseInt(c.channel, 10, 64); err == nil {
		return tgbotapi.NewMessage(id, text)
	}
	return tgbotapi.NewMessageToChannel(c.channel, text)
}
