package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/solaris-sizer/solaris/pkg/catalog"
	"github.com/solaris-sizer/solaris/pkg/common"
	"github.com/solaris-sizer/solaris/pkg/sizing"
	"github.com/solaris-sizer/solaris/pkg/types"
)

type calculateOptions struct {
	region      string
	regionSet   bool
	days        string
	catalogFile string
	server      string
	timeout     time.Duration
}

// readRequest loads a request from a JSON file or, for any other extension,
// a YAML file.
func readRequest(path string) (types.CalculateRequest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return types.CalculateRequest{}, fmt.Errorf("reading load file: %w", err)
	}

	var req types.CalculateRequest
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(b, &req)
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		err = dec.Decode(&req)
		if err == io.EOF {
			err = nil
		}
	}
	if err != nil {
		return types.CalculateRequest{}, fmt.Errorf("parsing load file %s: %w", path, err)
	}
	return req, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	c, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return c, nil
}

func runCalculate(ctx context.Context, w io.Writer, path string, opts calculateOptions) error {
	req, err := readRequest(path)
	if err != nil {
		return err
	}
	if opts.regionSet {
		region := opts.region
		req.Region = &region
	}
	if opts.days != "" {
		req.AutonomyDays = types.NumberFromString(opts.days)
	}

	var resp types.CalculateResponse
	if opts.server != "" {
		resp, err = calculateRemote(ctx, common.HTTPClient(opts.timeout), opts.server, req)
	} else {
		var c *catalog.Catalog
		c, err = loadCatalog(opts.catalogFile)
		if err != nil {
			return err
		}
		resp, err = sizing.NewSizer(c, nil).Calculate(ctx, req)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func calculateRemote(ctx context.Context, client *http.Client, server string, req types.CalculateRequest) (types.CalculateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return types.CalculateResponse{}, fmt.Errorf("encoding request: %w", err)
	}

	url := strings.TrimSuffix(server, "/") + "/api/calculate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return types.CalculateResponse{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return types.CalculateResponse{}, fmt.Errorf("calling %s: %w", url, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		var errBody struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(httpResp.Body).Decode(&errBody); err != nil || errBody.Error == "" {
			return types.CalculateResponse{}, fmt.Errorf("server returned %s", httpResp.Status)
		}
		return types.CalculateResponse{}, fmt.Errorf("server returned %s: %s", httpResp.Status, errBody.Error)
	}

	var resp types.CalculateResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return types.CalculateResponse{}, fmt.Errorf("decoding response: %w", err)
	}
	return resp, nil
}

func runCatalog(w io.Writer, catalogFile string) error {
	c, err := loadCatalog(catalogFile)
	if err != nil {
		return err
	}
	printCatalog(w, c)
	return nil
}

func runVersion(w io.Writer) error {
	_, err := fmt.Fprintf(w, "sizecalc %s\n", common.Version())
	return err
}
