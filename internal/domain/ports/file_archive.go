package ports

import "context"

// FileArchive guarda cópias de arquivos exportados fora da máquina local
type FileArchive interface {
	// Upload envia o arquivo em path com a chave key e devolve sua localização
	Upload(ctx context.Context, key, path, contentType string) (string, error)
}
