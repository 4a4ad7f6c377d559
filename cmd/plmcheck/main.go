// Command plmcheck validates UI manifests against a PLM schema and lints their
// component metadata.
package main

func main() {
	Execute()
}
