package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"SessionInsightsServer/internal/auth"
)

type uploadCommand struct {
	fs   *flag.FlagSet
	file string
}

func UploadCommand() Command {
	cmd := &uploadCommand{
		fs: flag.NewFlagSet("upload", flag.ExitOnError),
	}

	cmd.fs.StringVar(&cmd.file, "file", "", "Path to a text file with session data. Reads stdin when omitted")

	return cmd
}

func (c *uploadCommand) Init(args []string) error {
	return c.fs.Parse(args)
}

func (c *uploadCommand) Run() {
	var text []byte
	var err error
	if c.file == "" {
		text, err = io.ReadAll(os.Stdin)
	} else {
		text, err = os.ReadFile(c.file)
	}
	if err != nil {
		fmt.Printf("Could not read session data: %v\n", err)
		return
	}

	if err := upload(string(text)); err != nil {
		fmt.Printf("Upload failed! Error: %v\n", err)
	}
}

func (c *uploadCommand) Name() string {
	return c.fs.Name()
}

func (c *uploadCommand) Description() string {
	return "Upload a pasted session data block through the API"
}

// login posts the admin credentials from the environment and returns the
// session cookie to attach to API calls.
func login() (*http.Cookie, error) {
	form := url.Values{}
	form.Set("username", os.Getenv("SESSIONS_ADMIN_USERNAME"))
	form.Set("password", os.Getenv("SESSIONS_ADMIN_PASSWORD"))

	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/login", baseUrl), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	// The server answers a successful login with a redirect; the cookie is
	// on that first response.
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusFound {
		return nil, fmt.Errorf("login failed with status %d. MAKE SURE ENV VARS 'SESSIONS_ADMIN_USERNAME' AND 'SESSIONS_ADMIN_PASSWORD' ARE SET", res.StatusCode)
	}

	for _, cookie := range res.Cookies() {
		if cookie.Name == auth.CookieName {
			return cookie, nil
		}
	}
	return nil, fmt.Errorf("login response carried no session cookie")
}

func upload(text string) error {
	cookie, err := login()
	if err != nil {
		return err
	}

	body, err := json.Marshal(map[string]string{"session_data": text})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/api/v1/upload", baseUrl), strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/json")
	req.AddCookie(cookie)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	var resBody map[string]any
	if err = json.NewDecoder(res.Body).Decode(&resBody); err != nil {
		return err
	}

	if res.StatusCode != http.StatusCreated {
		return fmt.Errorf("Status %d, and message: %v", res.StatusCode, resBody["message"])
	}

	fmt.Println("Session data uploaded!")
	if data, err := json.MarshalIndent(resBody["data"], "", "  "); err == nil {
		fmt.Println(string(data))
	}

	return nil
}
