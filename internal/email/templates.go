package email

import (
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TemplateManager реализует TemplateRenderer для управления шаблонами email
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// Имена встроенных шаблонов
const (
	TemplateVerification  = "verification"
	TemplatePasswordReset = "password_reset"
)

const verificationTemplate = `<p>Здравствуйте{{if .Name}}, {{.Name}}{{end}}!</p>
<p>Подтвердите адрес электронной почты, перейдя по ссылке:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>Ссылка действует {{.TTL}}.</p>`

const passwordResetTemplate = `<p>Мы получили запрос на сброс пароля.</p>
<p>Чтобы задать новый пароль, перейдите по ссылке:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>Ссылка действует {{.TTL}}. Если вы не запрашивали сброс, просто проигнорируйте письмо.</p>`

// NewTemplateManager создает менеджер со встроенными шаблонами
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}
	// Встроенные шаблоны статичны, ошибка разбора здесь - ошибка программиста
	template.Must(tm.parse(TemplateVerification, verificationTemplate))
	template.Must(tm.parse(TemplatePasswordReset, passwordResetTemplate))
	return tm
}

// Render рендерит шаблон с данными
func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// AddTemplate добавляет или заменяет шаблон
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	if _, err := tm.parse(name, templateStr); err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return nil
}

func (tm *TemplateManager) parse(name, templateStr string) (*template.Template, error) {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return nil, err
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return tpl, nil
}

// LoadTemplates загружает *.html из директории, файлы переопределяют встроенные шаблоны
func (tm *TemplateManager) LoadTemplates(dirPath string) error {
	return filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", path, err)
		}

		templateName := strings.TrimSuffix(filepath.Base(path), ".html")
		if err := tm.AddTemplate(templateName, string(content)); err != nil {
			return fmt.Errorf("failed to add template %s: %w", templateName, err)
		}

		return nil
	})
}

// TemplateNames возвращает список имен загруженных шаблонов
func (tm *TemplateManager) TemplateNames() []string {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	names := make([]string, 0, len(tm.templates))
	for name := range tm.templates {
		names = append(names, name)
	}

	return names
}
