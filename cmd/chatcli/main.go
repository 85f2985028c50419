package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"ipecd-chatbot-be/internal/dto"
	"ipecd-chatbot-be/internal/pkg/serverutils"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Terminal client for the chatbot API. Useful for poking the pipeline
// without a frontend: every line is sent as one chat message, the reply
// is printed with its source tag.
func main() {
	baseURL := flag.String("url", "http://localhost:3000", "chatbot API base URL")
	flag.Parse()

	sessionID := uuid.NewString()
	client := &http.Client{Timeout: 90 * time.Second}

	title := color.New(color.FgCyan, color.Bold)
	botColor := color.New(color.FgGreen)
	metaColor := color.New(color.FgYellow)
	errColor := color.New(color.FgRed)

	title.Println("💬 Chatbot IPECD")
	fmt.Printf("Sesión: %s\n", sessionID)
	fmt.Println("Escribe 'salir' para terminar.")
	fmt.Println()

	// Empty first message brings up the root menu.
	if reply, err := sendMessage(client, *baseURL, sessionID, ""); err == nil {
		botColor.Println(reply.Response)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "salir") || strings.EqualFold(input, "exit") {
			break
		}

		reply, err := sendMessage(client, *baseURL, sessionID, input)
		if err != nil {
			errColor.Printf("Error: %v\n", err)
			continue
		}

		fmt.Println()
		botColor.Println(reply.Response)
		if reply.Source != "" || reply.Tool != "" {
			metaColor.Printf("[source=%s tool=%s]\n", reply.Source, reply.Tool)
		}
		fmt.Println()
	}

	fmt.Println("¡Hasta pronto! 👋")
}

func sendMessage(client *http.Client, baseURL, sessionID, message string) (*dto.ChatResponse, error) {
	payload, err := json.Marshal(dto.ChatRequest{SessionID: sessionID, Message: message})
	if err != nil {
		return nil, err
	}

	resp, err := client.Post(baseURL+"/api/chat", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var envelope serverutils.Response[*dto.ChatResponse]
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s (status %d)", envelope.Message, resp.StatusCode)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("empty response")
	}
	return envelope.Data, nil
}
