package auditfile

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
)

// Journal grava entradas de auditoria em um arquivo JSON lines.
// É o destino usado quando o banco de documentos não está disponível.
type Journal struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	logger *zap.Logger
}

type journalLine struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Username  string         `json:"usuario"`
	SessionID string         `json:"sessao,omitempty"`
	Operation string         `json:"operacao"`
	Entity    string         `json:"entidade"`
	EntityID  *uint          `json:"entidade_id,omitempty"`
	Status    string         `json:"status"`
	Details   map[string]any `json:"detalhes,omitempty"`
}

// Open abre (ou cria) o arquivo de contingência, criando o diretório se necessário
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create audit log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("open audit log file: %w", err)
	}

	encoderCfg := zapcore.EncoderConfig{
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		LineEnding:     zapcore.DefaultLineEnding,
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(f), zapcore.DebugLevel)

	return &Journal{path: path, file: f, logger: zap.New(core)}, nil
}

// Path retorna o caminho do arquivo
func (j *Journal) Path() string {
	return j.path
}

// Write acrescenta uma entrada ao arquivo
func (j *Journal) Write(entry *entities.AuditEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	fields := []zap.Field{
		zap.String("id", entry.ID),
		zap.Time("timestamp", entry.Timestamp),
		zap.String("usuario", entry.Username),
		zap.String("operacao", entry.Operation),
		zap.String("entidade", entry.Entity),
		zap.String("status", string(entry.Status)),
	}
	if entry.SessionID != "" {
		fields = append(fields, zap.String("sessao", entry.SessionID))
	}
	if entry.EntityID != nil {
		fields = append(fields, zap.Uintp("entidade_id", entry.EntityID))
	}
	if len(entry.Details) > 0 {
		fields = append(fields, zap.Any("detalhes", entry.Details))
	}

	j.logger.Info("", fields...)
	return j.logger.Sync()
}

// Recent lê as últimas limit entradas do arquivo, da mais recente para a mais antiga.
// Linhas que não puderem ser interpretadas são ignoradas.
func (j *Journal) Recent(limit int) ([]*entities.AuditEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.Open(j.path)
	if err != nil {
		return nil, fmt.Errorf("open audit log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var all []*entities.AuditEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var line journalLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			continue
		}
		all = append(all, &entities.AuditEntry{
			ID:        line.ID,
			Timestamp: line.Timestamp,
			Username:  line.Username,
			SessionID: line.SessionID,
			Operation: line.Operation,
			Entity:    line.Entity,
			EntityID:  line.EntityID,
			Status:    entities.AuditStatus(line.Status),
			Details:   line.Details,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read audit log file: %w", err)
	}

	out := make([]*entities.AuditEntry, 0, len(all))
	for i := len(all) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, all[i])
	}
	return out, nil
}

// Close fecha o arquivo
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_ = j.logger.Sync()
	return j.file.Close()
}
