package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/services"
)

// errAborted indica que o operador não confirmou a operação
var errAborted = stderrors.New("operation aborted by operator")

func (s *Shell) println(key string, params ...map[string]any) {
	fmt.Fprintln(s.out, s.tr.T(key, params...))
}

func (s *Shell) printMenu(title string, items []string) {
	fmt.Fprintln(s.out)
	s.println(title)
	for i, item := range items {
		fmt.Fprintf(s.out, "%d - %s\n", i+1, s.tr.T(item))
	}
	fmt.Fprintf(s.out, "0 - %s\n", s.tr.T("menu.exit"))
}

// printError escreve a mensagem traduzida do erro; erros sem tradução são logados
func (s *Shell) printError(err error) {
	if stderrors.Is(err, errAborted) {
		s.println("cli.aborted")
		return
	}

	message := s.tr.T("error.internal")
	if id, ok := errors.MessageID(err); ok {
		message = s.tr.T(id)
	} else {
		s.logger.Error("unexpected error", "error", err)
	}

	var verrs errors.ValidationErrors
	if stderrors.As(err, &verrs) {
		fields := make([]string, len(verrs))
		for i, f := range verrs {
			fields[i] = f.Field
		}
		message += " (" + strings.Join(fields, ", ") + ")"
	}
	s.println("cli.error", map[string]any{"Message": message})
}

func (s *Shell) readLine() (string, error) {
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Shell) ask(key string, params ...map[string]any) (string, error) {
	fmt.Fprint(s.out, s.tr.T(key, params...)+" ")
	return s.readLine()
}

// askRequired repete a pergunta até obter uma resposta não vazia
func (s *Shell) askRequired(key string) (string, error) {
	for {
		v, err := s.ask(key)
		if err != nil {
			return "", err
		}
		if v != "" {
			return v, nil
		}
		s.println("cli.required")
	}
}

// askDefault mostra o valor atual; resposta vazia mantém o valor
func (s *Shell) askDefault(key, current string) (string, bool, error) {
	v, err := s.ask("cli.with_default", map[string]any{"Label": s.tr.T(key), "Current": current})
	if err != nil {
		return "", false, err
	}
	if v == "" || v == current {
		return current, false, nil
	}
	return v, true, nil
}

// askDate lê uma data DD/MM/AAAA; com optional, resposta vazia devolve nil
func (s *Shell) askDate(key string, optional bool) (*time.Time, error) {
	for {
		v, err := s.ask(key)
		if err != nil {
			return nil, err
		}
		if v == "" && optional {
			return nil, nil
		}
		d, err := services.ParseDate(v)
		if err == nil {
			return &d, nil
		}
		s.println("cli.invalid_date")
	}
}

// askMoney lê um valor positivo aceitando vírgula ou ponto decimal
func (s *Shell) askMoney(key string) (float64, error) {
	for {
		v, err := s.ask(key)
		if err != nil {
			return 0, err
		}
		f, ok := parseMoney(v)
		if ok {
			return f, nil
		}
		s.println("cli.invalid_value")
	}
}

func (s *Shell) askID(key string) (uint, error) {
	for {
		v, err := s.ask(key)
		if err != nil {
			return 0, err
		}
		id, err := strconv.ParseUint(v, 10, 32)
		if err == nil && id > 0 {
			return uint(id), nil
		}
		s.println("cli.invalid_id")
	}
}

func (s *Shell) askInt(key string) (int, error) {
	for {
		v, err := s.ask(key)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(v)
		if err == nil {
			return n, nil
		}
		s.println("cli.invalid_number")
	}
}

func (s *Shell) askYesNo(key string) (bool, error) {
	for {
		v, err := s.ask(key)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(v) {
		case "s", "sim", "y", "yes":
			return true, nil
		case "n", "nao", "não", "no":
			return false, nil
		}
		s.println("cli.answer_yes_no")
	}
}

// confirm exige que o operador digite a palavra de confirmação
func (s *Shell) confirm() error {
	word := s.tr.T("cli.confirm_word")
	v, err := s.ask("cli.confirm", map[string]any{"Word": word})
	if err != nil {
		return err
	}
	if v != word {
		return errAborted
	}
	return nil
}

func parseMoney(v string) (float64, bool) {
	v = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(v), "R$"))
	if strings.Contains(v, ",") {
		v = strings.ReplaceAll(v, ".", "")
		v = strings.ReplaceAll(v, ",", ".")
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, false
	}
	return f, true
}

func formatMoney(v float64) string {
	return fmt.Sprintf("R$ %.2f", v)
}
