package rewrite

import (
	"fmt"
	"strings"

	"github.com/yudhis/autopress/internal/topic"
)

// systemMessage returns the system role for the selected language profile.
func systemMessage(language string) string {
	if language == "en" {
		return "You are a professional SEO blog writer for technology and entertainment websites."
	}
	return "Anda adalah penulis blog SEO profesional untuk situs teknologi dan hiburan."
}

// buildUserPrompt renders the rewrite instruction. Both profiles demand the
// same schema; only the wording and target language differ.
func buildUserPrompt(language string, c *topic.Candidate, allowedSlugs []string) string {
	slugs := strings.Join(allowedSlugs, ", ")
	var b strings.Builder

	if language == "en" {
		b.WriteString("Rewrite the following article in English, with a minimum of 1000 words, using an active, engaging, and friendly tone.\n\n")
		b.WriteString("Ensure:\n")
		b.WriteString("- The context is maintained (if discussing a specific game/anime/technology, mention and provide details).\n")
		if c.SourceURL != "" {
			fmt.Fprintf(&b, "- Include the original reference link in the content (outbound link): %s\n", c.SourceURL)
		}
		fmt.Fprintf(&b, "- Optimize for SEO using the title: %q\n", c.Title)
		b.WriteString("- Use a focus keyword based on the content.\n\n")
		fmt.Fprintf(&b, "Article:\n%s\n\n", c.Body)
		b.WriteString("Format the output in JSON with the following structure:\n")
		b.WriteString("- title\n- content (HTML)\n")
		fmt.Fprintf(&b, "- slug (%s)\n", slugs)
		b.WriteString("- meta_description (max 160 characters, including keyword)\n")
		b.WriteString("- keywords (array)\n")
		b.WriteString("- image_prompt (in English, vivid visual description)\n")
		b.WriteString("- focus_keyphrase\n")
		b.WriteString("- image_alt_text (including keyword)")
		return b.String()
	}

	b.WriteString("Tulis ulang artikel berikut dalam Bahasa Indonesia sepanjang minimal 1000 kata dengan gaya aktif, humanis, dan ramah pembaca.\n\n")
	b.WriteString("Pastikan:\n")
	b.WriteString("- Fokus tidak keluar konteks (jika membahas game/anime/teknologi tertentu, sebutkan dan jelaskan secara lengkap).\n")
	b.WriteString("- Tetap menyebutkan topik utama seperti nama game/anime/AI yang dimaksud.\n")
	if c.SourceURL != "" {
		fmt.Fprintf(&b, "- Tambahkan tautan referensi asli berikut di akhir atau dalam isi artikel (outbound link): %s\n", c.SourceURL)
	}
	fmt.Fprintf(&b, "- Optimalkan untuk SEO menggunakan judul: %q\n", c.Title)
	b.WriteString("- Gunakan kata kunci fokus berdasarkan isi.\n\n")
	fmt.Fprintf(&b, "Artikel:\n%s\n\n", c.Body)
	b.WriteString("Format hasil dalam JSON dengan struktur berikut:\n")
	b.WriteString("- title\n- content (HTML)\n")
	fmt.Fprintf(&b, "- slug (%s)\n", slugs)
	b.WriteString("- meta_description (maks 160 karakter, mengandung keyword)\n")
	b.WriteString("- keywords (array)\n")
	b.WriteString("- image_prompt (dalam Bahasa Inggris, deskripsi visual yang vivid)\n")
	b.WriteString("- focus_keyphrase\n")
	b.WriteString("- image_alt_text (mengandung keyword)")
	return b.String()
}
