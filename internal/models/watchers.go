package models

// Watcher — отслеживаемый сервером объект (товар/страница).
type Watcher struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	URL         string  `json:"url"`
	Status      string  `json:"status"`
	LastCheckAt *string `json:"lastCheckAt,omitempty"`
}

// WatchersResponse — обёртка ответа GET /watchers.
type WatchersResponse struct {
	Items []Watcher `json:"items"`
}
