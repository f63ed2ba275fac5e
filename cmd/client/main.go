package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/pixeltailor/pixeltailor/internal/webclient"
	"github.com/wb-go/wbf/config"
)

func main() {
	appConfig := config.New()
	appConfig.EnableEnv("")
	if err := appConfig.LoadEnvFiles("./.env"); err != nil {
		log.Fatalf("Failed to load envs: %s\nExiting app...", err)
	}

	baseURL := strings.TrimSuffix(appConfig.GetString("BASE_URL"), "/")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	app := &clientApp{
		api:   webclient.New(60 * time.Second),
		base:  baseURL,
		stdin: bufio.NewReader(os.Stdin),
	}

	fmt.Println("** Welcome to PixelTailor **")

	for {
		cmd := app.prompt()
		switch cmd {
		case "0":
			fmt.Println("** done **")
			return
		case "1":
			app.addUser()
		case "2":
			app.listUsers()
		case "3":
			app.listPhotos()
		case "4":
			app.upload()
		case "5":
			app.deletePhoto()
		case "6":
			app.gallery()
		case "7":
			app.download()
		case "8":
			app.processImage()
		default:
			fmt.Println("** Unknown command, try again...")
		}
	}
}

func (a *clientApp) prompt() string {
	fmt.Println()
	fmt.Println(">> Enter a command:")
	fmt.Println("   0 => end")
	fmt.Println("   1 => add new user")
	fmt.Println("   2 => list all users")
	fmt.Println("   3 => list all images of a user")
	fmt.Println("   4 => upload and recognition")
	fmt.Println("   5 => delete image")
	fmt.Println("   6 => retrieve gallery by labels")
	fmt.Println("   7 => download image")
	fmt.Println("   8 => process image")
	return a.readLine("")
}
