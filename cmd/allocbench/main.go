// Command allocbench drives workloads on the manual allocator and on the Go
// heap and reports what the allocator did.
package main

func main() {
	execute()
}
