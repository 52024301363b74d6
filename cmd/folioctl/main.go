// Command folioctl is the operator tool for a folio deployment: it applies
// database migrations, moves content between the file and database backends
// and reports where content is stored.
package main

func main() {
	Execute()
}
