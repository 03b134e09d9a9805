// Command sfs serves configurable search, filter and sort list views over
// PostgreSQL.
//
// Usage:
//
//	# Serve the views declared in views.yaml
//	sfs serve
//
//	# Serve seeded demo data without a database
//	sfs serve --memory
//
//	# Apply or roll back the bundled schema
//	sfs migrate
//	sfs migrate --down
//
//	# Validate searchable entities and view declarations
//	sfs check
package main

func main() {
	Execute()
}
