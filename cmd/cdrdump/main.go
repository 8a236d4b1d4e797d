package main

import (
	"flag"
	"fmt"
	"os"

	fastcdr "github.com/eProsima/Fast-CDR-sub003"
)

func main() {
	var (
		filename = flag.String("file", "", "CDR-encoded file to dump")
	)
	flag.Parse()
	if len(*filename) == 0 {
		fmt.Println("Error: ", "input CDR file required ...")
		os.Exit(0)
	}
	if err := fastcdr.Dump(*filename); nil != err {
		fmt.Println("Error: ", err)
		os.Exit(1)
	}
}
