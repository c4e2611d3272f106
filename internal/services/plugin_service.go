package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/astreus-ai/astreus-admin-be/internal/models"
	"github.com/google/uuid"
)

// PluginServiceProvider defines the interface for plugin catalog services.
type PluginServiceProvider interface {
	ListPlugins(search string, page, limit int) (models.PluginPage, error)
	GetPluginByID(id string) (models.Plugin, error)
	CreatePlugin(plugin models.Plugin) (models.Plugin, error)
	UpdatePlugin(id string, plugin models.Plugin, keepImage bool) (models.Plugin, error)
	DeletePlugin(id string) error
}

// PluginService provides business logic for the plugin catalog.
type PluginService struct {
	db *sql.DB
}

// NewPluginService creates a new PluginService.
func NewPluginService(db *sql.DB) *PluginService {
	return &PluginService{db: db}
}

const pluginColumns = "id, name, description, author, github_url, docs_url, image_data, created_at"

// scanPlugin is a helper to scan a plugin from a row or rows object.
func scanPlugin(scanner interface{ Scan(...interface{}) error }) (models.Plugin, error) {
	var plugin models.Plugin
	var docsURL, imageData sql.NullString

	err := scanner.Scan(
		&plugin.ID, &plugin.Name, &plugin.Description, &plugin.Author,
		&plugin.GithubURL, &docsURL, &imageData, &plugin.CreatedAt,
	)
	if err != nil {
		return plugin, err
	}

	plugin.DocsURL = docsURL.String
	plugin.ImageData = imageData.String
	return plugin, nil
}

// ListPlugins returns one page of the catalog, newest first, optionally
// filtered by a case-insensitive match across name, description and author.
func (s *PluginService) ListPlugins(search string, page, limit int) (models.PluginPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}

	pattern := "%" + strings.ToLower(search) + "%"

	var total int
	const countQuery = `
		SELECT COUNT(*) FROM plugins
		WHERE ? = '' OR LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(author) LIKE ?`
	err := s.db.QueryRow(countQuery, search, pattern, pattern, pattern).Scan(&total)
	if err != nil {
		return models.PluginPage{}, wrapDB(err)
	}

	const listQuery = `
		SELECT id, name, description, author, github_url, docs_url, image_data, created_at
		FROM plugins
		WHERE ? = '' OR LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(author) LIKE ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`
	rows, err := s.db.Query(listQuery, search, pattern, pattern, pattern, limit, (page-1)*limit)
	if err != nil {
		return models.PluginPage{}, wrapDB(err)
	}
	defer rows.Close()

	plugins := []models.Plugin{}
	for rows.Next() {
		plugin, err := scanPlugin(rows)
		if err != nil {
			return models.PluginPage{}, err
		}
		plugins = append(plugins, plugin)
	}
	if err := rows.Err(); err != nil {
		return models.PluginPage{}, wrapDB(err)
	}

	return models.PluginPage{
		Plugins: plugins,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			TotalCount: total,
			TotalPages: (total + limit - 1) / limit,
		},
	}, nil
}

// GetPluginByID retrieves a single plugin by its ID.
func (s *PluginService) GetPluginByID(id string) (models.Plugin, error) {
	row := s.db.QueryRow("SELECT "+pluginColumns+" FROM plugins WHERE id = ?", id)
	plugin, err := scanPlugin(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Plugin{}, fmt.Errorf("plugin %s: %w", id, ErrNotFound)
		}
		return models.Plugin{}, wrapDB(err)
	}
	return plugin, nil
}

// CreatePlugin adds a new plugin to the catalog.
func (s *PluginService) CreatePlugin(plugin models.Plugin) (models.Plugin, error) {
	plugin.ID = uuid.New().String()
	plugin.CreatedAt = time.Now().UTC()

	stmt, err := s.db.Prepare(`
		INSERT INTO plugins(id, name, description, author, github_url, docs_url, image_data, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.Plugin{}, wrapDB(err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		plugin.ID, plugin.Name, plugin.Description, plugin.Author,
		plugin.GithubURL, plugin.DocsURL, plugin.ImageData, plugin.CreatedAt,
	)
	if err != nil {
		return models.Plugin{}, wrapDB(err)
	}
	return plugin, nil
}

// UpdatePlugin replaces every field of an existing plugin. When keepImage is
// true the stored image payload is left as is (the caller omitted the field).
func (s *PluginService) UpdatePlugin(id string, plugin models.Plugin, keepImage bool) (models.Plugin, error) {
	var result sql.Result
	var err error
	if keepImage {
		result, err = s.db.Exec(`
			UPDATE plugins SET name = ?, description = ?, author = ?, github_url = ?, docs_url = ?
			WHERE id = ?`,
			plugin.Name, plugin.Description, plugin.Author, plugin.GithubURL, plugin.DocsURL, id)
	} else {
		result, err = s.db.Exec(`
			UPDATE plugins SET name = ?, description = ?, author = ?, github_url = ?, docs_url = ?, image_data = ?
			WHERE id = ?`,
			plugin.Name, plugin.Description, plugin.Author, plugin.GithubURL, plugin.DocsURL, plugin.ImageData, id)
	}
	if err != nil {
		return models.Plugin{}, wrapDB(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return models.Plugin{}, err
	}
	if affected == 0 {
		return models.Plugin{}, fmt.Errorf("plugin %s: %w", id, ErrNotFound)
	}

	return s.GetPluginByID(id)
}

// DeletePlugin removes a plugin from the catalog.
func (s *PluginService) DeletePlugin(id string) error {
	result, err := s.db.Exec("DELETE FROM plugins WHERE id = ?", id)
	if err != nil {
		return wrapDB(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("plugin %s: %w", id, ErrNotFound)
	}
	return nil
}
