// Package artifacts resolves which server archive a workflow should fetch.
// A branch parameter is either a CI job name (e.g. SERVER-5.1-latest) or a
// release version; each maps to a different download location. Fetching and
// unpacking the archive stays with the external downloader the workflow
// invokes.
package artifacts

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// jobNameRe matches CI job names such as SERVER-5.1-latest. Anything that is
// not a job name must be a release version or "latest".
var jobNameRe = regexp.MustCompile(`^[A-Za-z]\w+-\w+`)

// Artifact describes one downloadable server archive.
type Artifact struct {
	// URL is where the archive is fetched from.
	URL string
	// Filename is the local name the download step writes.
	Filename string
	// ServerDir is the directory the archive unpacks to.
	ServerDir string
}

// Resolver builds artifact locations from a CI server and a release download
// server. An explicit ArchiveURL bypasses both.
type Resolver struct {
	CIBase       string
	DownloadBase string
	ArchiveURL   string
}

// Resolve determines the artifact for the given branch and CI axis labels
// (e.g. "ICE=3.6"). Labels only apply to CI job artifacts.
func (r Resolver) Resolve(branch, labels string) (*Artifact, error) {
	if r.ArchiveURL != "" {
		return fromURL(r.ArchiveURL)
	}

	if branch == "" {
		return nil, fmt.Errorf("no branch or archive URL given")
	}

	if jobNameRe.MatchString(branch) {
		return r.jobArtifact(branch, labels), nil
	}

	return r.releaseArtifact(branch)
}

func (r Resolver) jobArtifact(job, labels string) *Artifact {
	filename := job + "-server.zip"
	segments := []string{strings.TrimRight(r.CIBase, "/"), "job", job}
	if labels != "" {
		segments = append(segments, labels)
	}
	segments = append(segments, "lastSuccessfulBuild", "artifact", filename)
	return &Artifact{
		URL:       strings.Join(segments, "/"),
		Filename:  filename,
		ServerDir: strings.TrimSuffix(filename, ".zip"),
	}
}

func (r Resolver) releaseArtifact(branch string) (*Artifact, error) {
	version := branch
	if version != "latest" {
		v, err := semver.NewVersion(branch)
		if err != nil {
			return nil, fmt.Errorf("invalid release or job name %q: %w", branch, err)
		}
		version = v.Original()
	}

	filename := fmt.Sprintf("server-%s.zip", version)
	url := fmt.Sprintf("%s/releases/%s/%s", strings.TrimRight(r.DownloadBase, "/"), version, filename)
	return &Artifact{
		URL:       url,
		Filename:  filename,
		ServerDir: strings.TrimSuffix(filename, ".zip"),
	}, nil
}

func fromURL(rawURL string) (*Artifact, error) {
	filename := path.Base(rawURL)
	if filename == "." || filename == "/" || filename == "" {
		return nil, fmt.Errorf("cannot derive a filename from archive URL %q", rawURL)
	}
	return &Artifact{
		URL:       rawURL,
		Filename:  filename,
		ServerDir: strings.TrimSuffix(filename, ".zip"),
	}, nil
}
