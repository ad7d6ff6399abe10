package main

func main() {
	Execute()
	ShowUpdateNoticeIfAvailable()
}
