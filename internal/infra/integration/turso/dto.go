package turso

// Database is the subset of the platform's database object the provisioner
// needs.
type Database struct {
	Name     string `json:"Name"`
	Hostname string `json:"Hostname"`
}

type createDatabaseRequest struct {
	Name  string `json:"name"`
	Group string `json:"group"`
}

type createDatabaseResponse struct {
	Database Database `json:"database"`
}

type listDatabasesResponse struct {
	Databases []Database `json:"databases"`
}

type createTokenResponse struct {
	JWT string `json:"jwt"`
}
