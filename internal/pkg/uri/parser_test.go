package uri

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantPath string
		wantErr  bool
	}{
		{"普通本地URI", "local://2024/cover.jpg", "2024/cover.jpg", false},
		{"单段路径", "local://a.png", "a.png", false},
		{"非local协议", "http://example.com/a.png", "", true},
		{"缺少路径", "local://", "", true},
		{"空串", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Parse(%q) 应返回错误", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) 失败: %v", tt.input, err)
			}
			if parsed.Path != tt.wantPath {
				t.Errorf("Path = %q, 期望 %q", parsed.Path, tt.wantPath)
			}
			if parsed.Scheme != "local" {
				t.Errorf("Scheme = %q", parsed.Scheme)
			}
		})
	}
}

func TestResolverPublicURL(t *testing.T) {
	resolver := NewResolver("/uploads")

	if got := resolver.PublicURL("local://2024/cover.jpg"); got != "/uploads/2024/cover.jpg" {
		t.Errorf("PublicURL = %q", got)
	}
	if got := resolver.PublicURL("bad-uri"); got != "" {
		t.Errorf("非法 URI 应返回空串, 实际 %q", got)
	}

	t.Run("前缀末尾斜杠被规范化", func(t *testing.T) {
		r := NewResolver("/uploads/")
		if got := r.PublicURL("local://a.png"); got != "/uploads/a.png" {
			t.Errorf("PublicURL = %q", got)
		}
	})
}
