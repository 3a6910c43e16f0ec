package testutil

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
)

// MemoryAuditRepository guarda entradas de auditoria em memória.
// Com Err definido, todas as operações falham com ele.
type MemoryAuditRepository struct {
	mu      sync.Mutex
	Entries []*entities.AuditEntry
	Err     error
}

func (r *MemoryAuditRepository) Insert(_ context.Context, entry *entities.AuditEntry) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return "", r.Err
	}
	entry.ID = strconv.Itoa(len(r.Entries) + 1)
	r.Entries = append(r.Entries, entry)
	return entry.ID, nil
}

func (r *MemoryAuditRepository) Find(_ context.Context, filter entities.AuditFilter) ([]*entities.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []*entities.AuditEntry
	for i := len(r.Entries) - 1; i >= 0; i-- {
		e := r.Entries[i]
		if (filter.Username != "" && e.Username != filter.Username) ||
			(filter.Operation != "" && e.Operation != filter.Operation) ||
			(filter.Entity != "" && e.Entity != filter.Entity) {
			continue
		}
		out = append(out, e)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (r *MemoryAuditRepository) Stats(_ context.Context) (*entities.AuditStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	byEntity, byUser, byOp := map[string]int64{}, map[string]int64{}, map[string]int64{}
	for _, e := range r.Entries {
		byEntity[e.Entity]++
		byUser[e.Username]++
		byOp[e.Operation]++
	}
	return &entities.AuditStats{
		Total:       int64(len(r.Entries)),
		ByEntity:    counts(byEntity),
		ByUser:      counts(byUser),
		ByOperation: counts(byOp),
	}, nil
}

// Last devolve a entrada mais recente, ou nil
func (r *MemoryAuditRepository) Last() *entities.AuditEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Entries) == 0 {
		return nil
	}
	return r.Entries[len(r.Entries)-1]
}

// ByOperation filtra as entradas por operação e entidade
func (r *MemoryAuditRepository) ByOperation(operation, entity string) []*entities.AuditEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.AuditEntry
	for _, e := range r.Entries {
		if e.Operation == operation && e.Entity == entity {
			out = append(out, e)
		}
	}
	return out
}

func counts(m map[string]int64) []entities.CountEntry {
	out := make([]entities.CountEntry, 0, len(m))
	for k, v := range m {
		out = append(out, entities.CountEntry{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// MemoryJournal é um journal de auditoria em memória
type MemoryJournal struct {
	mu      sync.Mutex
	Entries []*entities.AuditEntry
}

func (j *MemoryJournal) Write(entry *entities.AuditEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Entries = append(j.Entries, entry)
	return nil
}

// Recent devolve as últimas limit entradas, da mais recente para a mais antiga
func (j *MemoryJournal) Recent(limit int) ([]*entities.AuditEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]*entities.AuditEntry, 0, len(j.Entries))
	for i := len(j.Entries) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, j.Entries[i])
	}
	return out, nil
}

// MemoryClaimDocumentRepository guarda documentos de sinistros em memória
type MemoryClaimDocumentRepository struct {
	mu   sync.Mutex
	Docs []*entities.ClaimDocument
}

func (r *MemoryClaimDocumentRepository) Insert(_ context.Context, doc *entities.ClaimDocument) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc.ID = strconv.Itoa(len(r.Docs) + 1)
	r.Docs = append(r.Docs, doc)
	return doc.ID, nil
}

func (r *MemoryClaimDocumentRepository) ListByClaim(ctx context.Context, claimID uint) ([]*entities.ClaimDocument, error) {
	return r.ListByClaimAndType(ctx, claimID, "")
}

func (r *MemoryClaimDocumentRepository) ListByClaimAndType(_ context.Context, claimID uint, docType string) ([]*entities.ClaimDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.ClaimDocument
	for i := len(r.Docs) - 1; i >= 0; i-- {
		d := r.Docs[i]
		if d.ClaimID == claimID && (docType == "" || d.DocumentType == docType) {
			out = append(out, d)
		}
	}
	return out, nil
}

// MemoryProfileRepository guarda perfis de clientes em memória
type MemoryProfileRepository struct {
	mu       sync.Mutex
	Profiles map[uint]*entities.CustomerProfile
}

func (r *MemoryProfileRepository) profile(customerID uint) *entities.CustomerProfile {
	if r.Profiles == nil {
		r.Profiles = map[uint]*entities.CustomerProfile{}
	}
	p, ok := r.Profiles[customerID]
	if !ok {
		p = &entities.CustomerProfile{
			ID:          strconv.FormatUint(uint64(customerID), 10),
			CustomerID:  customerID,
			Preferences: map[string]any{},
		}
		r.Profiles[customerID] = p
	}
	p.LastUpdated = time.Now().UTC()
	return p
}

func (r *MemoryProfileRepository) Upsert(_ context.Context, customerID uint, preferences map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profile(customerID).Preferences = preferences
	return nil
}

func (r *MemoryProfileRepository) Touch(_ context.Context, customerID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profile(customerID)
	return nil
}

func (r *MemoryProfileRepository) AppendContact(_ context.Context, customerID uint, contact entities.ContactRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.profile(customerID)
	p.ContactHistory = append(p.ContactHistory, contact)
	return nil
}

func (r *MemoryProfileRepository) FindByCustomerID(_ context.Context, customerID uint) (*entities.CustomerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.Profiles[customerID]
	if !ok {
		return nil, errors.ErrCustomerNotFound
	}
	return p, nil
}

func (r *MemoryProfileRepository) List(_ context.Context) ([]*entities.CustomerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entities.CustomerProfile, 0, len(r.Profiles))
	for _, p := range r.Profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerID < out[j].CustomerID })
	return out, nil
}

// MemoryReportRepository guarda metadados de relatórios em memória
type MemoryReportRepository struct {
	mu      sync.Mutex
	Reports []*entities.ExportedReport
}

func (r *MemoryReportRepository) Insert(_ context.Context, report *entities.ExportedReport) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report.ID = strconv.Itoa(len(r.Reports) + 1)
	r.Reports = append(r.Reports, report)
	return report.ID, nil
}

func (r *MemoryReportRepository) FindByType(_ context.Context, reportType string) ([]*entities.ExportedReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.ExportedReport
	for _, rep := range r.Reports {
		if rep.ReportType == reportType {
			out = append(out, rep)
		}
	}
	return out, nil
}

func (r *MemoryReportRepository) FindByUser(_ context.Context, username string) ([]*entities.ExportedReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.ExportedReport
	for _, rep := range r.Reports {
		if rep.Username == username {
			out = append(out, rep)
		}
	}
	return out, nil
}
