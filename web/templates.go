package web

import (
	"html/template"
)

func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"plural": plural,
	}
	return template.Must(template.New("page").Funcs(funcs).Parse(pageTemplate))
}

func plural(count int, singular, pluralForm string) string {
	if count == 1 {
		return singular
	}
	return pluralForm
}

const pageTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Tasks</title>
  <style>
    :root {
      color-scheme: light;
    }
    body {
      margin: 0;
      font-family: "Charter", "Georgia", serif;
      color: #2b2520;
      background: radial-gradient(circle at top left, #f4efe3 0%, #fcfaf6 55%, #f6f2e8 100%);
    }
    header {
      padding: 16px 24px;
      border-bottom: 1px solid #d7cdbd;
      background: rgba(255, 255, 255, 0.72);
      backdrop-filter: blur(6px);
    }
    header h1 {
      margin: 0;
      font-size: 20px;
      letter-spacing: 0.02em;
    }
    main {
      max-width: 760px;
      margin: 0 auto;
      padding: 18px 24px 28px;
      display: flex;
      flex-direction: column;
      gap: 18px;
    }
    .pane {
      background: #ffffff;
      border: 1px solid #d7cdbd;
      border-radius: 14px;
      box-shadow: 0 8px 24px rgba(60, 45, 30, 0.08);
      padding: 16px 18px;
    }
    .add-form {
      display: grid;
      grid-template-columns: 1fr 150px 160px auto;
      gap: 10px;
      align-items: start;
    }
    input[type="text"],
    input[type="date"],
    select,
    textarea {
      width: 100%;
      padding: 8px 10px;
      border-radius: 8px;
      border: 1px solid #cbbfae;
      font-family: inherit;
      font-size: 14px;
      background: #fffdf9;
      box-sizing: border-box;
    }
    textarea {
      min-height: 38px;
      resize: vertical;
    }
    button {
      padding: 8px 14px;
      border-radius: 8px;
      border: 1px solid #bfb3a2;
      background: #efe6d7;
      font-family: inherit;
      cursor: pointer;
    }
    button.danger {
      background: #f4d7d2;
      border-color: #d7a7a1;
    }
    button.link {
      border: none;
      background: none;
      padding: 0;
      color: #72685f;
      font-size: 12px;
      text-decoration: underline;
    }
    .summary {
      display: flex;
      gap: 16px;
      font-size: 14px;
      color: #4f4540;
    }
    .summary strong {
      color: #1d1712;
    }
    .item-list {
      list-style: none;
      padding: 0;
      margin: 0;
      display: flex;
      flex-direction: column;
      gap: 8px;
    }
    .task-item {
      display: flex;
      justify-content: space-between;
      gap: 12px;
      padding: 10px 12px;
      border-radius: 10px;
      border: 1px solid #e0d6c6;
      transition: opacity 0.3s ease, background 0.3s ease;
    }
    .task-item.status-done .task-text {
      text-decoration: line-through;
      color: #72685f;
    }
    .task-item.changing {
      opacity: 0.45;
      background: #f6f0e6;
    }
    .task-main {
      display: flex;
      flex-direction: column;
      gap: 4px;
      flex: 1;
    }
    .task-text {
      font-weight: 600;
      cursor: text;
    }
    .task-actions {
      display: flex;
      gap: 8px;
      align-items: start;
    }
    .task-actions form {
      margin: 0;
    }
    .due {
      font-size: 12px;
      color: #72685f;
      cursor: pointer;
    }
    .due.urgency-urgent {
      color: #8a5a00;
      font-weight: 600;
    }
    .due.urgency-overdue {
      color: #a12a1d;
      font-weight: 600;
    }
    .due-form {
      display: flex;
      gap: 6px;
    }
    .hidden {
      display: none !important;
    }
    .muted {
      color: #72685f;
    }
    details summary {
      cursor: pointer;
      font-weight: 600;
    }
    #notices {
      position: fixed;
      right: 18px;
      bottom: 18px;
      display: flex;
      flex-direction: column;
      gap: 8px;
    }
    .notice {
      padding: 10px 14px;
      border-radius: 8px;
      border: 1px solid #bfb3a2;
      background: #f5efe4;
      box-shadow: 0 6px 18px rgba(60, 45, 30, 0.12);
      transition: opacity {{.NoticeFadeMS}}ms ease;
    }
    .notice-error {
      background: #f7d9d6;
      border-color: #d9a7a2;
      color: #5b1d17;
    }
    .notice.fading {
      opacity: 0;
    }
    @media (max-width: 700px) {
      .add-form {
        grid-template-columns: 1fr;
      }
      .task-item {
        flex-direction: column;
      }
    }
  </style>
</head>
<body>
  <header>
    <h1>Tasks</h1>
  </header>
  <main>
    <section class="pane">
      <form id="add-form" class="add-form" method="post" action="/tasks/add">
        <textarea id="add-text" name="text" placeholder="What needs doing?" rows="1"></textarea>
        <select name="status">
          {{range .StatusOptions}}
            <option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
          {{end}}
        </select>
        <input type="date" name="due">
        <button type="submit">Add</button>
      </form>
    </section>

    <section class="pane summary" id="summary">
      <span><strong>{{.Summary.Total}}</strong> {{plural .Summary.Total "task" "tasks"}}</span>
      <span><strong>{{.Summary.Todo}}</strong> to do</span>
      <span><strong>{{.Summary.Doing}}</strong> in progress</span>
      <span><strong>{{.Summary.Done}}</strong> done</span>
    </section>

    <section class="pane">
      <ul class="item-list" id="task-list">
        {{range .Items}}
          <li class="task-item status-{{.Status}}" data-id="{{.ID}}">
            <div class="task-main">
              <span class="task-text" data-edit>{{.Text}}</span>
              <form class="text-form hidden" method="post" action="/tasks/text?id={{.ID}}">
                <input type="text" name="text" value="{{.Text}}" data-original="{{.Text}}">
              </form>
              {{if .HasDue}}
                <span class="due urgency-{{.Urgency}}" data-reveal>{{.DueLabel}}{{if .UrgencyLabel}} &middot; {{.UrgencyLabel}}{{end}}</span>
              {{else}}
                <button type="button" class="link" data-reveal>+ add due date</button>
              {{end}}
              <div class="due-form hidden">
                <form method="post" action="/tasks/due?id={{.ID}}">
                  <input type="date" name="due" value="{{.DueDate}}">
                  <button type="submit">Save</button>
                </form>
                {{if .HasDue}}
                  <form method="post" action="/tasks/due?id={{.ID}}">
                    <button type="submit">Clear</button>
                  </form>
                {{end}}
              </div>
            </div>
            <div class="task-actions">
              <form method="post" action="/tasks/status?id={{.ID}}">
                <select name="status" data-autosubmit>
                  {{range .StatusOptions}}
                    <option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
                  {{end}}
                </select>
              </form>
              <form method="post" action="/tasks/archive?id={{.ID}}" data-delayed>
                <button type="submit">Archive</button>
              </form>
              <form method="post" action="/tasks/delete?id={{.ID}}" data-delayed data-confirm="Delete this task?">
                <input type="hidden" name="confirm" value="">
                <button class="danger" type="submit">Delete</button>
              </form>
            </div>
          </li>
        {{else}}
          <li class="muted empty-state">{{.EmptyMessage}}</li>
        {{end}}
      </ul>
    </section>

    <section class="pane">
      <details id="archive">
        <summary>Archived ({{len .Archived}})</summary>
        <ul class="item-list" id="archived-list">
          {{range .Archived}}
            <li class="task-item archived status-{{.Status}}" data-id="{{.ID}}">
              <div class="task-main">
                <span class="task-text">{{.Text}}</span>
                <span class="due muted">{{.StatusLabel}}{{if .HasDue}} &middot; {{.DueLabel}}{{end}}</span>
              </div>
              <div class="task-actions">
                <form method="post" action="/tasks/unarchive?id={{.ID}}" data-delayed>
                  <button type="submit">Restore</button>
                </form>
                <form method="post" action="/tasks/delete?id={{.ID}}" data-delayed data-confirm="Delete this task?">
                  <input type="hidden" name="confirm" value="">
                  <button class="danger" type="submit">Delete</button>
                </form>
              </div>
            </li>
          {{else}}
            <li class="muted empty-state">{{.ArchivedEmptyMessage}}</li>
          {{end}}
        </ul>
      </details>
    </section>
  </main>

  <div id="notices">
    {{with .Notice}}<div class="notice notice-{{.Kind}}" role="status">{{.Message}}</div>{{end}}
  </div>

  <script>
  (function () {
    var changeDelay = {{.ChangeDelayMS}};
    var noticeDisplay = {{.NoticeDisplayMS}};
    var noticeFade = {{.NoticeFadeMS}};

    function dismiss(el) {
      setTimeout(function () {
        el.classList.add("fading");
        setTimeout(function () { el.remove(); }, noticeFade);
      }, noticeDisplay);
    }

    function showNotice(kind, message) {
      var el = document.createElement("div");
      el.className = "notice notice-" + kind;
      el.setAttribute("role", "status");
      el.textContent = message;
      document.getElementById("notices").appendChild(el);
      dismiss(el);
    }

    function delayedSubmit(form) {
      var item = form.closest(".task-item");
      if (item) {
        item.classList.add("changing");
      }
      setTimeout(function () { form.submit(); }, changeDelay);
    }

    document.querySelectorAll("#notices .notice").forEach(dismiss);

    var addForm = document.getElementById("add-form");
    var addText = document.getElementById("add-text");
    addForm.addEventListener("submit", function (event) {
      if (addText.value.trim() === "") {
        event.preventDefault();
        showNotice("error", "Please enter a task");
      }
    });
    addText.addEventListener("keydown", function (event) {
      if (event.key === "Enter" && !event.shiftKey) {
        event.preventDefault();
        addForm.requestSubmit();
      }
    });

    document.querySelectorAll("form[data-delayed]").forEach(function (form) {
      form.addEventListener("submit", function (event) {
        event.preventDefault();
        var message = form.getAttribute("data-confirm");
        if (message) {
          if (!window.confirm(message)) {
            return;
          }
          form.querySelector("input[name=confirm]").value = "yes";
        }
        delayedSubmit(form);
      });
    });

    document.querySelectorAll("select[data-autosubmit]").forEach(function (select) {
      select.addEventListener("change", function () { delayedSubmit(select.form); });
    });

    document.querySelectorAll("[data-edit]").forEach(function (label) {
      var form = label.nextElementSibling;
      var input = form.querySelector("input[name=text]");
      var settled = true;

      function editing(on) {
        label.classList.toggle("hidden", on);
        form.classList.toggle("hidden", !on);
      }
      function cancel() {
        settled = true;
        input.value = input.getAttribute("data-original");
        editing(false);
      }
      function commit() {
        if (settled) {
          return;
        }
        var value = input.value.trim();
        if (value === "" || value === input.getAttribute("data-original")) {
          cancel();
          return;
        }
        settled = true;
        form.submit();
      }

      label.addEventListener("click", function () {
        settled = false;
        editing(true);
        input.focus();
        input.select();
      });
      input.addEventListener("keydown", function (event) {
        if (event.key === "Enter") {
          event.preventDefault();
          commit();
        } else if (event.key === "Escape") {
          event.preventDefault();
          cancel();
        }
      });
      input.addEventListener("blur", commit);
      form.addEventListener("submit", function (event) {
        event.preventDefault();
        commit();
      });
    });

    document.querySelectorAll("[data-reveal]").forEach(function (trigger) {
      trigger.addEventListener("click", function () {
        var panel = trigger.parentElement.querySelector(".due-form");
        panel.classList.remove("hidden");
        trigger.classList.add("hidden");
        var input = panel.querySelector("input[type=date]");
        if (input) {
          input.focus();
        }
      });
    });
  })();
  </script>
</body>
</html>
`
