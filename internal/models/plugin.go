package models

import "time"

// Plugin is a catalog entry describing a third-party extension.
type Plugin struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Author      string    `json:"author"`
	GithubURL   string    `json:"githubUrl"`
	DocsURL     string    `json:"docsUrl,omitempty"`
	ImageData   string    `json:"imageData,omitempty"` // base64 payload, stored inline
	CreatedAt   time.Time `json:"createdAt"`
}

// Pagination describes the slice of a listing returned to the client.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalCount int `json:"totalCount"`
	TotalPages int `json:"totalPages"`
}

// PluginPage is the response shape of the plugin listing endpoint.
type PluginPage struct {
	Plugins    []Plugin   `json:"plugins"`
	Pagination Pagination `json:"pagination"`
}
