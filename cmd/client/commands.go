package main

import (
	"bufio"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pixeltailor/pixeltailor/internal/model"
	"github.com/pixeltailor/pixeltailor/internal/webclient"
)

type clientApp struct {
	api   *webclient.Client
	base  string
	stdin *bufio.Reader
}

func (a *clientApp) readLine(prompt string) string {
	if prompt != "" {
		fmt.Println(prompt)
	}
	line, _ := a.stdin.ReadString('\n')
	return strings.TrimSpace(line)
}

// readID keeps asking until the input is a plain decimal number.
func (a *clientApp) readID(prompt string) int64 {
	for {
		s := a.readLine(prompt)
		id, err := strconv.ParseInt(s, 10, 64)
		if err == nil && id >= 0 {
			return id
		}
		fmt.Println("Invalid input, the id must be a number.")
	}
}

func (a *clientApp) readFloat(prompt string, min, max float64) float64 {
	for {
		s := a.readLine(fmt.Sprintf("%s (%g-%g)>", prompt, min, max))
		v, err := strconv.ParseFloat(s, 64)
		if err == nil && v >= min && v <= max {
			return v
		}
		fmt.Printf("Value must be a number between %g and %g.\n", min, max)
	}
}

func (a *clientApp) readInt(prompt string, min, max int) int {
	for {
		s := a.readLine(fmt.Sprintf("%s (%d-%d)>", prompt, min, max))
		v, err := strconv.Atoi(s)
		if err == nil && v >= min && v <= max {
			return v
		}
		fmt.Printf("Value must be an integer between %d and %d.\n", min, max)
	}
}

// decodeBody reads the full response body and closes it.
func decodeBody(resp *http.Response, out any) error {
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// reportFailure prints the server's error message for a non-200 answer.
func reportFailure(resp *http.Response) {
	var body struct {
		Error string `json:"error"`
	}
	if err := decodeBody(resp, &body); err == nil && body.Error != "" {
		fmt.Printf("Failed with status code %d: %s\n", resp.StatusCode, body.Error)
		return
	}
	fmt.Println("Failed with status code:", resp.StatusCode)
}

func (a *clientApp) addUser() {
	username := a.readLine("Enter the user name>")
	if username == "" {
		fmt.Println("Please enter a valid username.")
		return
	}
	password := a.readLine("Enter the password>")
	if password == "" {
		fmt.Println("Please enter a valid password.")
		return
	}

	payload, _ := json.Marshal(map[string]string{
		"username":     username,
		"password":     password,
		"bucketfolder": uuid.NewString(),
	})

	resp, err := a.api.PostJSON(a.base+"/adduser", payload)
	if err != nil {
		fmt.Println("Request failed:", err)
		return
	}
	if resp.StatusCode != 200 {
		reportFailure(resp)
		return
	}

	var body struct {
		UserID int64 `json:"userId"`
	}
	if err := decodeBody(resp, &body); err != nil {
		fmt.Println("Failed to read server answer:", err)
		return
	}
	fmt.Println("The user", body.UserID, "was added successfully")
}

func (a *clientApp) listUsers() {
	resp, err := a.api.Get(a.base + "/users")
	if err != nil {
		fmt.Println("Request failed:", err)
		return
	}
	if resp.StatusCode != 200 {
		reportFailure(resp)
		return
	}

	var users []model.User
	if err := decodeBody(resp, &users); err != nil {
		fmt.Println("Failed to read server answer:", err)
		return
	}
	if len(users) == 0 {
		fmt.Println("no users...")
		return
	}
	for _, u := range users {
		fmt.Println(" - User Id:", u.UserID)
		fmt.Println("   User Name:", u.Username)
	}
}

func (a *clientApp) listPhotos() {
	userID := a.readID("Enter user id>")

	resp, err := a.api.Get(fmt.Sprintf("%s/listphotos/%d", a.base, userID))
	if err != nil {
		fmt.Println("Request failed:", err)
		return
	}
	if resp.StatusCode != 200 {
		reportFailure(resp)
		return
	}

	var photos []model.Photo
	if err := decodeBody(resp, &photos); err != nil {
		fmt.Println("Failed to read server answer:", err)
		return
	}
	if len(photos) == 0 {
		fmt.Printf("No photos found for user %d\n", userID)
		return
	}
	fmt.Printf("\nAll photos of user %d:\n", userID)
	for _, p := range photos {
		fmt.Println("  Photo ID:", p.PhotoID)
		fmt.Println("  Original Name:", p.OriginalName)
		fmt.Println()
	}
}

func (a *clientApp) upload() {
	fmt.Println("NOTE: only .jpg, .jpeg, .png and .gif are allowed")
	filename := a.readLine("Enter photo's filename>")

	raw, err := os.ReadFile(filename)
	if err != nil {
		fmt.Printf("File %q cannot be read: %v\n", filename, err)
		return
	}
	userID := a.readID("Enter user id>")

	payload, _ := json.Marshal(map[string]string{
		"filename": filename,
		"data":     base64.StdEncoding.EncodeToString(raw),
	})

	resp, err := a.api.PostJSON(fmt.Sprintf("%s/upload/%d", a.base, userID), payload)
	if err != nil {
		fmt.Println("Request failed:", err)
		return
	}
	if resp.StatusCode != 200 {
		reportFailure(resp)
		return
	}

	var body struct {
		PhotoID int64 `json:"photoid"`
	}
	if err := decodeBody(resp, &body); err != nil {
		fmt.Println("Failed to read server answer:", err)
		return
	}
	fmt.Println("The photo", body.PhotoID, "was uploaded successfully, labels will appear shortly")
}

func (a *clientApp) deletePhoto() {
	userID := a.readID("Enter user id>")
	photoID := a.readID("Enter photo id>")

	payload, _ := json.Marshal(map[string]string{
		"photoid": strconv.FormatInt(photoID, 10),
	})

	resp, err := a.api.DeleteJSON(fmt.Sprintf("%s/delete/%d", a.base, userID), payload)
	if err != nil {
		fmt.Println("Request failed:", err)
		return
	}
	if resp.StatusCode != 200 {
		reportFailure(resp)
		return
	}
	_ = resp.Body.Close()
	fmt.Println("The photo", photoID, "was deleted successfully.")
}

func (a *clientApp) gallery() {
	userID := a.readID("Enter user id>")

	resp, err := a.api.Get(fmt.Sprintf("%s/label/%d", a.base, userID))
	if err != nil {
		fmt.Println("Request failed:", err)
		return
	}
	if resp.StatusCode != 200 {
		reportFailure(resp)
		return
	}

	var labels []string
	if err := decodeBody(resp, &labels); err != nil {
		fmt.Println("Failed to read server answer:", err)
		return
	}
	if len(labels) == 0 {
		fmt.Printf("No labels found for user %d\n", userID)
		return
	}
	fmt.Printf("Labels for user %d:\n", userID)
	for _, l := range labels {
		fmt.Println(" -", l)
	}

	for {
		label := a.readLine("Enter a label to retrieve your photos (or 'E' to exit)>")
		if strings.EqualFold(label, "e") {
			return
		}

		resp, err := a.api.Get(fmt.Sprintf("%s/labelphoto/%d/%s", a.base, userID, label))
		if err != nil {
			fmt.Println("Request failed:", err)
			continue
		}
		if resp.StatusCode != 200 {
			reportFailure(resp)
			continue
		}

		var photos []model.PhotoSummary
		if err := decodeBody(resp, &photos); err != nil {
			fmt.Println("Failed to read server answer:", err)
			continue
		}
		if len(photos) == 0 {
			fmt.Printf("No photos found for label %q\n", label)
			continue
		}
		fmt.Printf("\nPhotos with label %q:\n", label)
		for _, p := range photos {
			fmt.Println("  Photo ID:", p.PhotoID)
			fmt.Println("  Original Name:", p.OriginalName)
			fmt.Println("  Label Name:", p.LabelName)
			fmt.Println()
		}
	}
}

func (a *clientApp) download() {
	photoID := a.readID("Enter photo id>")
	userID := a.readID("Enter user id>")

	resp, err := a.api.Get(fmt.Sprintf("%s/download/%d/%d", a.base, userID, photoID))
	if err != nil {
		fmt.Println("Request failed:", err)
		return
	}
	if resp.StatusCode != 200 {
		reportFailure(resp)
		return
	}

	var body struct {
		Filename    string `json:"filename"`
		EncodedFile string `json:"encoded_file"`
	}
	if err := decodeBody(resp, &body); err != nil {
		fmt.Println("Failed to read server answer:", err)
		return
	}

	if err := saveEncodedFile(body.Filename, body.EncodedFile); err != nil {
		fmt.Println("Failed to save photo:", err)
		return
	}
	fmt.Printf("Photo saved as %q\n", body.Filename)
}

func (a *clientApp) processImage() {
	userID := a.readID("Enter user id>")
	photoID := a.readID("Enter photo id>")

	fmt.Println("Supported operations: crop, thumbnail, pad, adjust_color, change_color")
	operation := a.readLine("Enter operation>")
	if !model.OperationsMap[model.Operation(operation)] {
		fmt.Println("Invalid operation.")
		return
	}

	params := map[string]any{}
	switch model.Operation(operation) {
	case model.OpCrop:
		for {
			left := a.readInt("Left", 0, 5000)
			top := a.readInt("Top", 0, 5000)
			right := a.readInt("Right", 0, 5000)
			bottom := a.readInt("Bottom", 0, 5000)
			if right <= left {
				fmt.Println("'Right' must be greater than 'Left'. Please enter again.")
				continue
			}
			if bottom <= top {
				fmt.Println("'Bottom' must be greater than 'Top'. Please enter again.")
				continue
			}
			params["left"], params["top"] = left, top
			params["right"], params["bottom"] = right, bottom
			break
		}
	case model.OpThumbnail:
		fmt.Println("Generating thumbnail with fixed size 128x128...")
	case model.OpPad:
		params["width"] = a.readInt("Width", 1, 5000)
		params["height"] = a.readInt("Height", 1, 5000)
	case model.OpAdjustColor:
		params["brightness"] = a.readFloat("Brightness", 0, 2)
		params["contrast"] = a.readFloat("Contrast", 0, 2)
	case model.OpChangeColor:
		params["color"] = a.readColorName()
	}

	payload, _ := json.Marshal(map[string]any{"parameters": params})

	url := fmt.Sprintf("%s/process-image/%d/%d/%s", a.base, userID, photoID, operation)
	resp, err := a.api.PostJSON(url, payload)
	if err != nil {
		fmt.Println("Request failed:", err)
		return
	}
	if resp.StatusCode != 200 {
		reportFailure(resp)
		return
	}

	var body struct {
		Filename       string `json:"filename"`
		EncodedPreview string `json:"encoded_preview"`
	}
	if err := decodeBody(resp, &body); err != nil {
		fmt.Println("Failed to read server answer:", err)
		return
	}

	if err := saveEncodedFile(body.Filename, body.EncodedPreview); err != nil {
		fmt.Println("Failed to save processed image:", err)
		return
	}
	fmt.Printf("Processed image saved as %q\n", body.Filename)
}

func (a *clientApp) readColorName() string {
	for {
		name := strings.ToLower(a.readLine("Enter color name (red, green, blue, yellow, black, white, gray)>"))
		if _, ok := model.ColorPalette[name]; ok {
			return name
		}
		fmt.Println("Invalid color name.")
	}
}

func saveEncodedFile(filename, encoded string) error {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, raw, 0o644)
}
