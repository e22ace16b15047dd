package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/persona-cli/internal/domain"
	"github.com/bnema/persona-cli/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configName          = "config"
	configType          = "toml"
	charactersPathKey   = "characters.path"
	charactersFileMode  = 0o600
	charactersDirMode   = 0o700
	charactersConfigDir = ".persona"
	charactersFile      = "characters.toml"
	tempFilePattern     = ".characters-*.toml.tmp"
)

// Repository stores character definitions in a single TOML file whose path
// is resolved through viper (config key "characters.path").
type Repository struct {
	charactersPath string
	mu             *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.CharacterRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, charactersConfigDir, charactersFile)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, charactersConfigDir))
	cfg.SetDefault(charactersPathKey, defaultPath)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	charactersPath := cfg.GetString(charactersPathKey)
	if charactersPath == "" {
		return nil, errors.New("characters path is empty")
	}
	charactersPath, err = normalizeCharactersPath(charactersPath)
	if err != nil {
		return nil, err
	}

	return &Repository{charactersPath: charactersPath, mu: lockForPath(charactersPath)}, nil
}

func (r *Repository) Save(ctx context.Context, character domain.Character) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := character.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	encoded := toSchema(character)
	updated := false
	for i := range file.Characters {
		if file.Characters[i].ID == encoded.ID {
			file.Characters[i] = encoded
			updated = true
			break
		}
	}

	if !updated {
		file.Characters = append(file.Characters, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *Repository) GetByID(ctx context.Context, id domain.CharacterID) (domain.Character, error) {
	if err := ctx.Err(); err != nil {
		return domain.Character{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Character{}, err
	}
	file.applyDefaults()

	for _, entry := range file.Characters {
		if entry.ID == string(id) {
			return fromSchema(entry), nil
		}
	}

	return domain.Character{}, domain.ErrCharacterNotFound
}

func (r *Repository) List(ctx context.Context) ([]domain.Character, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}
	file.applyDefaults()

	characters := make([]domain.Character, 0, len(file.Characters))
	for _, entry := range file.Characters {
		characters = append(characters, fromSchema(entry))
	}

	return characters, nil
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.charactersPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read characters file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode characters file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.charactersPath), charactersDirMode); err != nil {
		return fmt.Errorf("create characters directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode characters file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.charactersPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp characters file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp characters file: %w", err)
	}

	if err := tempFile.Chmod(charactersFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp characters file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp characters file: %w", err)
	}

	if err := os.Rename(tempName, r.charactersPath); err != nil {
		return fmt.Errorf("replace characters file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(r.charactersPath, charactersFileMode); err != nil {
		return fmt.Errorf("chmod characters file: %w", err)
	}

	return nil
}

func normalizeCharactersPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve characters path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
