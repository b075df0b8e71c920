package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const maxDownloadSize = 10 * 1024 * 1024

// imageRef points at the picture a message carries.
type imageRef struct {
	fileID   string
	mimeType string
}

// imageOf picks the largest photo size, or an image sent as a document.
func imageOf(msg *models.Message) (imageRef, bool) {
	if len(msg.Photo) > 0 {
		best := msg.Photo[0]
		for _, p := range msg.Photo[1:] {
			if p.Width*p.Height > best.Width*best.Height {
				best = p
			}
		}
		return imageRef{fileID: best.FileID}, true
	}
	if d := msg.Document; d != nil && strings.HasPrefix(d.MimeType, "image/") {
		return imageRef{fileID: d.FileID, mimeType: d.MimeType}, true
	}
	return imageRef{}, false
}

// DownloadPhoto fetches a Telegram file and sniffs its MIME type.
func DownloadPhoto(ctx context.Context, m Messenger, client *http.Client, fileID string) (data []byte, mimeType string, err error) {
	if fileID == "" {
		return nil, "", errors.New("empty fileID provided for photo download")
	}
	if client == nil {
		client = http.DefaultClient
	}

	downloadCtx, cancel := context.WithTimeout(ctx, photoDownloadTimeout)
	defer cancel()

	file, err := m.GetFile(downloadCtx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get file info from Telegram: %w", err)
	}
	if file.FilePath == "" {
		return nil, "", fmt.Errorf("empty file path returned from Telegram for file ID %s", fileID)
	}

	req, err := http.NewRequestWithContext(downloadCtx, http.MethodGet, m.FileDownloadLink(file), nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create download request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, "", fmt.Errorf("unexpected status code %d downloading %s: %s", resp.StatusCode, fileID, body)
	}
	data, err = io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file data: %w", err)
	}
	if len(data) > maxDownloadSize {
		return nil, "", fmt.Errorf("file %s exceeds %d bytes", fileID, maxDownloadSize)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("received empty file data for %s", fileID)
	}
	return data, http.DetectContentType(data), nil
}

func messageText(msg *models.Message) string {
	switch {
	case msg.Text != "" && msg.Caption != "":
		return msg.Text + " " + msg.Caption
	case msg.Text != "":
		return msg.Text
	default:
		return msg.Caption
	}
}

func isGroup(chat models.Chat) bool {
	return chat.Type == models.ChatTypeGroup || chat.Type == models.ChatTypeSupergroup
}

func repliesTo(msg *models.Message, userID int64) bool {
	r := msg.ReplyToMessage
	return userID != 0 && r != nil && r.From != nil && r.From.ID == userID
}

func displayName(u *models.User) string {
	if u == nil {
		return "seeker"
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return u.Username
	}
	return "seeker"
}
