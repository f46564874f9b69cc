package handler

import (
	"os"
	"path/filepath"
	"strconv"
	"unicode/utf8"

	"qnabot/internal/domain"

	"go.uber.org/zap"
)

const (
	maxMessageLen = 2048
	maxAlbumSize  = 10
)

// answerMessages renders an answer as text chunks followed by its attachment albums
func answerMessages(req *Request, q *domain.Question) []Outbound {
	var msgs []Outbound
	for _, chunk := range chunkText(q.Answer, maxMessageLen) {
		msgs = append(msgs, textMessage(chunk, nil))
	}
	for _, album := range albums(attachmentPaths(req, q), maxAlbumSize) {
		msgs = append(msgs, Outbound{Documents: album})
	}
	return msgs
}

// chunkText splits s into pieces of size bytes. A boundary that falls inside
// a multi-byte character is moved forward to the end of that character.
func chunkText(s string, size int) []string {
	var chunks []string
	for len(s) > size {
		cut := size
		for cut < len(s) && !utf8.RuneStart(s[cut]) {
			cut++
		}
		chunks = append(chunks, s[:cut])
		s = s[cut:]
	}
	if s != "" {
		chunks = append(chunks, s)
	}
	return chunks
}

// attachmentPaths resolves attachments under STATIC_DIR/<question id>/.
// Missing files are logged and skipped.
func attachmentPaths(req *Request, q *domain.Question) []string {
	dir := filepath.Join(req.StaticDir, strconv.FormatInt(q.ID, 10))

	paths := make([]string, 0, len(q.Attachments))
	for _, name := range q.Attachments {
		if !filepath.IsLocal(name) {
			req.Logger.Error("Attachment path escapes static dir",
				zap.Int64("question_id", q.ID),
				zap.String("attachment", name),
			)
			continue
		}
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			req.Logger.Error("Attachment file not found",
				zap.Int64("question_id", q.ID),
				zap.String("path", path),
			)
			continue
		}
		paths = append(paths, path)
	}
	return paths
}

func albums(paths []string, size int) [][]string {
	var out [][]string
	for len(paths) > size {
		out = append(out, paths[:size:size])
		paths = paths[size:]
	}
	if len(paths) > 0 {
		out = append(out, paths)
	}
	return out
}
