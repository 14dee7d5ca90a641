package cmd

import (
	"fmt"
)

const banner = `
  ______                   _ _  _____ _             _
 |  ____|                 (_|_)/ ____| |           | |
 | |__   _ __ ___   ___    _ _| (___ | |_ _   _  __| |_   _
 |  __| | '_ ` + "`" + ` _ \ / _ \  | | |\___ \| __| | | |/ _` + "`" + ` | | | |
 | |____| | | | | | (_) | | | |____) | |_| |_| | (_| | |_| |
 |______|_| |_| |_|\___/  | |_|_____/ \__|\__,_|\__,_|\__, |
                         _/ |                          __/ |
                        |__/                          |___/
`

func printBanner() {
	fmt.Printf("\x1b[34m%s\x1b[0m", banner)
	fmt.Printf("\x1b[32m  Emoji Password Study - Version %s\x1b[0m\n\n", Version)
}
