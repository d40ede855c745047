package main

//go:generate echo "Generating SQLC files..."
//go:generate bash -c "export PATH=$$PATH:~/go/bin && sqlc generate -f ../../storage/sqlc.yaml"
//go:generate echo "SQLC files generated"

//go:generate echo "Generating templ files..."
//go:generate bash -c "export PATH=$$PATH:~/go/bin && templ generate -path ../../views"
//go:generate echo "templ files generated"

//go:generate echo "Generating mocks..."
//go:generate bash -c "cd ../../internal/mocks && go generate ./..."
//go:generate echo "mocks generated"

// This file contains go:generate directives that regenerate the SQLC query
// code, the templ components and the gomock mocks in this project. Run:
//
// go generate ./...
//
// from the project root directory.
