package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/infrastructure/i18n"
	"github.com/rafabene/seguros-backoffice/internal/services"
)

// DefaultAuditLimit é a quantidade de entradas exibidas quando nenhum limite é informado
const DefaultAuditLimit = 10

// profileContacts é a quantidade de contatos exibidos por perfil
const profileContacts = 3

// Viewer exibe o log de auditoria e os perfis de clientes
type Viewer struct {
	out      io.Writer
	tr       i18n.Translator
	audit    *services.AuditService
	profiles *services.ProfileService
}

// NewViewer cria um Viewer
func NewViewer(out io.Writer, tr i18n.Translator, audit *services.AuditService, profiles *services.ProfileService) *Viewer {
	return &Viewer{out: out, tr: tr, audit: audit, profiles: profiles}
}

// Recent mostra as entradas mais recentes
func (v *Viewer) Recent(ctx context.Context, limit int) error {
	return v.entries(ctx, "audit.recent_title", entities.AuditFilter{Limit: limitOrDefault(limit)})
}

// ByUser mostra as entradas de um operador
func (v *Viewer) ByUser(ctx context.Context, username string, limit int) error {
	return v.entries(ctx, "audit.user_title", entities.AuditFilter{Username: username, Limit: limitOrDefault(limit)})
}

// ByEntity mostra as entradas de uma entidade (cliente, apolice, ...)
func (v *Viewer) ByEntity(ctx context.Context, entity string, limit int) error {
	return v.entries(ctx, "audit.entity_title", entities.AuditFilter{Entity: entity, Limit: limitOrDefault(limit)})
}

func (v *Viewer) entries(ctx context.Context, title string, filter entities.AuditFilter) error {
	entries, err := v.audit.Query(ctx, filter)
	if err != nil {
		return err
	}

	fmt.Fprintln(v.out, v.tr.T(title, map[string]any{
		"Limit":  filter.Limit,
		"User":   filter.Username,
		"Entity": filter.Entity,
	}))
	if v.audit.UsingFallback() {
		fmt.Fprintln(v.out, v.tr.T("audit.fallback_notice"))
	}
	if len(entries) == 0 {
		fmt.Fprintln(v.out, v.tr.T("audit.empty"))
		return nil
	}

	w := tabwriter.NewWriter(v.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		v.tr.T("audit.col.timestamp"), v.tr.T("audit.col.user"), v.tr.T("audit.col.operation"),
		v.tr.T("audit.col.entity"), v.tr.T("audit.col.status"), v.tr.T("audit.col.details"))
	for _, e := range entries {
		entity := e.Entity
		if e.EntityID != nil {
			entity = fmt.Sprintf("%s #%d", e.Entity, *e.EntityID)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format("02/01/2006 15:04:05"), e.Username, e.Operation, entity, e.Status, formatDetails(e.Details))
	}
	return w.Flush()
}

// Stats mostra o total de entradas e os agrupamentos por entidade, usuário e operação
func (v *Viewer) Stats(ctx context.Context) error {
	stats, err := v.audit.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(v.out, v.tr.T("audit.stats_title", map[string]any{"Total": stats.Total}))
	for _, group := range []struct {
		key    string
		counts []entities.CountEntry
	}{
		{"audit.stats_by_entity", stats.ByEntity},
		{"audit.stats_by_user", stats.ByUser},
		{"audit.stats_by_operation", stats.ByOperation},
	} {
		fmt.Fprintln(v.out)
		fmt.Fprintln(v.out, v.tr.T(group.key))
		w := tabwriter.NewWriter(v.out, 0, 0, 2, ' ', 0)
		for _, c := range group.counts {
			fmt.Fprintf(w, "  %s\t%d\n", c.Key, c.Count)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// Profiles mostra os perfis de clientes com os últimos contatos
func (v *Viewer) Profiles(ctx context.Context) error {
	profiles, err := v.profiles.List(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(v.out, v.tr.T("audit.profiles_title", map[string]any{"Count": len(profiles)}))
	for _, p := range profiles {
		fmt.Fprintln(v.out)
		fmt.Fprintln(v.out, v.tr.T("audit.profile_header", map[string]any{
			"CustomerID": p.CustomerID,
			"Updated":    p.LastUpdated.Local().Format("02/01/2006 15:04"),
		}))
		if len(p.Preferences) > 0 {
			fmt.Fprintln(v.out, v.tr.T("audit.profile_preferences", map[string]any{"Preferences": formatDetails(p.Preferences)}))
		}
		contacts := p.LastContacts(profileContacts)
		if len(contacts) == 0 {
			fmt.Fprintln(v.out, v.tr.T("audit.profile_no_contacts"))
			continue
		}
		for _, c := range contacts {
			fmt.Fprintf(v.out, "  - %s %s: %s\n", c.Timestamp.Local().Format("02/01/2006 15:04"), c.Type, c.Description)
		}
	}
	return nil
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultAuditLimit
	}
	return limit
}

// formatDetails serializa o mapa em "chave=valor" com as chaves ordenadas
func formatDetails(details map[string]any) string {
	if len(details) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, details[k])
	}
	return strings.Join(parts, " ")
}
