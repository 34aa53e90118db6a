package main

import (
	soundtun "github.com/soundtun/soundtun/src"
)

func main() {
	soundtun.BitsToWavMain()
}
