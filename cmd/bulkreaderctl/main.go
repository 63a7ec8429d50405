// Command bulkreaderctl drives the bulk reader's planning and fetch
// pipeline against a filesystem-backed demo cluster, the way the
// teacher's dbsafe binary drives its analyzer against a live MySQL
// connection.
package main

func main() {
	Execute()
}
