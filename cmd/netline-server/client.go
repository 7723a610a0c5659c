package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/morezero/netline-server/pkg/client"
	"github.com/morezero/netline-server/pkg/dispatcher"
	"github.com/morezero/netline-server/pkg/protocol"
)

// runClient drives the interactive demo client: a menu over one
// persistent connection, one request and one displayed response per
// selection.
func runClient(addr string) error {
	c, err := client.Dial(addr)
	if err != nil {
		return err
	}
	defer c.Close()
	fmt.Printf("Connected to %s.\n\n", addr)

	stdin := bufio.NewScanner(os.Stdin)
	for {
		fmt.Println("1) ECHO")
		fmt.Println("2) SYSTEM_INFO")
		fmt.Println("3) FILE_QUERY")
		fmt.Println("4) HELP")
		fmt.Println("5) EXIT")

		choice := prompt(stdin, "Select an option: ")

		var reqType string
		payload := map[string]interface{}{}
		switch choice {
		case "1":
			reqType = dispatcher.TypeEcho
			payload["message"] = prompt(stdin, "Enter message: ")
		case "2":
			reqType = dispatcher.TypeSystemInfo
		case "3":
			reqType = dispatcher.TypeFileQuery
			payload["key"] = prompt(stdin, "Enter key: ")
		case "4":
			reqType = dispatcher.TypeHelp
		case "5":
			fmt.Println("Exiting client.")
			return nil
		default:
			fmt.Println("Invalid choice.")
			fmt.Println()
			continue
		}

		resp, err := c.Do(reqType, payload)
		if err != nil {
			return err
		}
		displayResponse(resp)
	}
}

func prompt(stdin *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !stdin.Scan() {
		return ""
	}
	return strings.TrimSpace(stdin.Text())
}

func displayResponse(resp *protocol.Response) {
	fmt.Println("\n--- Server Response ---")
	fmt.Printf("Status: %s\n", resp.Status)
	if resp.Status == protocol.StatusOK {
		data, err := json.MarshalIndent(resp.Data, "", "  ")
		if err != nil {
			fmt.Printf("%v\n", resp.Data)
		} else {
			fmt.Println(string(data))
		}
	} else if resp.Error != nil {
		fmt.Printf("Error: [%s] %s\n", resp.Error.Code, resp.Error.Message)
	}
	fmt.Print("------------------------\n\n")
}
