// Command wordlens looks up English and Chinese words, keeps them in
// vocabulary books and syncs the books to Anki.
package main

func main() {
	execute()
}
