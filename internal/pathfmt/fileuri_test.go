package pathfmt

import "testing"

func TestFileURI(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "absolute path",
			path: "/home/user/file.json",
			want: "file:///home/user/file.json",
		},
		{
			name: "relative path unchanged",
			path: ".stratum/cache/fetch_1a2b3c4d5e6f7890/payload.json",
			want: ".stratum/cache/fetch_1a2b3c4d5e6f7890/payload.json",
		},
		{
			name: "already file:// prefixed",
			path: "file:///home/user/file.json",
			want: "file:///home/user/file.json",
		},
		{
			name: "https URL unchanged",
			path: "https://github.com/org/repo",
			want: "https://github.com/org/repo",
		},
		{
			name: "empty string",
			path: "",
			want: "",
		},
		{
			name: "path with spaces",
			path: "/path/with spaces/file.json",
			want: "file:///path/with spaces/file.json",
		},
		{
			name: "root path",
			path: "/",
			want: "file:///",
		},
		{
			name: "deeply nested absolute path",
			path: "/srv/stratum/runs/samples-2026-07-29/align_9f86d081884c7d65/.cache",
			want: "file:///srv/stratum/runs/samples-2026-07-29/align_9f86d081884c7d65/.cache",
		},
		{
			name: "path with special characters",
			path: "/tmp/file (1).json",
			want: "file:///tmp/file (1).json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FileURI(tt.path)
			if got != tt.want {
				t.Errorf("FileURI(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestRunnerOutputURI(t *testing.T) {
	tests := []struct {
		name           string
		outdir         string
		runnerName     string
		fingerprintHex string
		payload        string
		want           string
	}{
		{
			name:           "entry directory, no payload",
			outdir:         "/var/stratum/out",
			runnerName:     "fetch",
			fingerprintHex: "1a2b3c4d5e6f7890",
			payload:        "",
			want:           "file:///var/stratum/out/fetch_1a2b3c4d5e6f7890",
		},
		{
			name:           "payload file inside the entry",
			outdir:         "/var/stratum/out",
			runnerName:     "align",
			fingerprintHex: "9f86d081884c7d65",
			payload:        ".cache",
			want:           "file:///var/stratum/out/align_9f86d081884c7d65/.cache",
		},
		{
			name:           "nested payload path",
			outdir:         "/var/stratum/out",
			runnerName:     "assemble",
			fingerprintHex: "deadbeefcafef00d",
			payload:        "results/contigs.fasta",
			want:           "file:///var/stratum/out/assemble_deadbeefcafef00d/results/contigs.fasta",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RunnerOutputURI(tt.outdir, tt.runnerName, tt.fingerprintHex, tt.payload)
			if got != tt.want {
				t.Errorf("RunnerOutputURI(%q, %q, %q, %q) = %q, want %q",
					tt.outdir, tt.runnerName, tt.fingerprintHex, tt.payload, got, tt.want)
			}
		})
	}
}
